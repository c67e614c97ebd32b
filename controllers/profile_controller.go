package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pontualapp/pontual/models"
	"github.com/pontualapp/pontual/session"
	"github.com/pontualapp/pontual/store"
	"github.com/pontualapp/pontual/utils"
)

// ProfileController serves and updates the local user profile, plus the
// statistics derived from the local check-in history.
type ProfileController struct {
	sess  *session.Manager
	store *store.Store

	now func() time.Time
}

func NewProfileController(sess *session.Manager, st *store.Store) *ProfileController {
	return &ProfileController{sess: sess, store: st, now: time.Now}
}

// Get handles GET /perfil.
func (p *ProfileController) Get(ctx *gin.Context) {
	profile := p.store.Profile()
	records := p.store.Checkins()
	current, longest := models.ComputeStreaks(records, p.now())

	utils.Success(ctx, gin.H{
		"profile": profile,
		"stats": models.ProfileStats{
			TotalCheckins: len(records),
			TotalPoints:   p.store.Points(),
			CurrentStreak: current,
			LongestStreak: longest,
		},
	})
}

type profileForm struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
	StartDate  string `json:"startDate"`
}

// Update handles PUT /perfil. Free text fields are stripped of any markup
// before being stored.
func (p *ProfileController) Update(ctx *gin.Context) {
	var form profileForm
	if err := ctx.ShouldBindJSON(&form); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "dados de perfil inválidos")
		return
	}

	name := utils.StripHTML(form.Name)
	if !utils.IsNotEmpty(name) {
		utils.Error(ctx, http.StatusBadRequest, 40021, "Por favor, informe um nome")
		return
	}

	profile := p.store.Profile()
	profile.Name = name
	if dept := utils.StripHTML(form.Department); dept != "" {
		profile.Department = dept
	}
	if pos := utils.StripHTML(form.Position); pos != "" {
		profile.Position = pos
	}
	if form.StartDate != "" {
		if _, err := time.Parse("2006-01-02", form.StartDate); err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40022, "data de início inválida")
			return
		}
		profile.StartDate = form.StartDate
	}
	p.store.SaveProfile(profile)

	utils.SuccessMessage(ctx, "Perfil atualizado com sucesso!", gin.H{"profile": p.store.Profile()})
}
