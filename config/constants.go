package config

// Storage keys used by the persistent store wrapper.
const (
	KeyIsLoggedIn    = "isLoggedIn"
	KeyUserEmail     = "userEmail"
	KeyAuthToken     = "authToken"
	KeyCheckinPrefix = "checkin_"
	KeyCheckinList   = "checkins"
	KeyUserPoints    = "userPoints"
	KeyUserProfile   = "userProfile"
)

// User facing messages (pt-BR, kept verbatim from the product copy).
const (
	MsgLoginSuccess        = "Login realizado com sucesso!"
	MsgLoginOffline        = "Login realizado com sucesso! (Modo offline)"
	MsgLoginError          = "Erro ao fazer login. Verifique suas credenciais."
	MsgInvalidCredentials  = "Credenciais inválidas. Tente: admin/123456, user/password ou test/test123"
	MsgFillAllFields       = "Por favor, preencha todos os campos"
	MsgFillUserAndPassword = "Por favor, preencha nome de usuário e senha"
	MsgPasswordsMismatch   = "As senhas não coincidem"
	MsgPasswordTooShort    = "A senha deve ter pelo menos 6 caracteres"
	MsgCheckinSuccess      = "Check-in realizado com sucesso!"
	MsgCheckinError        = "Erro ao realizar check-in."
	MsgWeekendWarning      = "Check-ins não são permitidos aos finais de semana."
	MsgAlreadyCheckedIn    = "Você já fez o check-in hoje!"
	MsgNetworkError        = "Erro de conexão. Tente novamente."
	MsgCongratulations     = "Parabéns, você já fez o check-in de hoje"
	MsgUserCreated         = "Usuário criado com sucesso! Redirecionando..."
	MsgUserCreateError     = "Erro ao criar usuário"
	MsgPasswordChanged     = "Senha alterada com sucesso! Redirecionando para o login..."
	MsgPasswordChangeError = "Erro ao alterar senha. Tente novamente."
	MsgRankingError        = "Erro ao carregar o ranking. Carregando dados de exemplo..."
)

// Routes exposed to clients of the gateway.
const (
	RouteLogin         = "/login"
	RouteCheckin       = "/checkin"
	RouteRanking       = "/ranking"
	RouteProfile       = "/perfil"
	RouteCreateUser    = "/create-user"
	RouteResetPassword = "/reset-password"
)
