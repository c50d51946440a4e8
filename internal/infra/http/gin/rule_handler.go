package ginserver

import (
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"ratedesk/internal/app/commands"
	"ratedesk/internal/app/dto"
	calendarapp "ratedesk/internal/app/handlers/calendar"
	ruleapp "ratedesk/internal/app/handlers/rules"
	"ratedesk/internal/app/queries"
	"ratedesk/internal/domain/notes"
	domainrules "ratedesk/internal/domain/rules"
	"ratedesk/internal/infra/storage/memory"
)

type RuleHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func (h RuleHandler) List(c *gin.Context) {
	query := ruleapp.ListRulesQuery{PropertyID: c.Query("property_id")}
	result, err := queries.Ask[ruleapp.ListRulesQuery, []dto.Rule](c.Request.Context(), h.Queries, query)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RuleHandler) Create(c *gin.Context) {
	var input dto.RuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := ruleapp.CreateRuleCommand{Input: input}
	result, err := commands.Dispatch[ruleapp.CreateRuleCommand, *dto.Rule](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h RuleHandler) Update(c *gin.Context) {
	var patch dto.RulePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := ruleapp.UpdateRuleCommand{ID: c.Param("id"), Patch: patch}
	result, err := commands.Dispatch[ruleapp.UpdateRuleCommand, *dto.Rule](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		handleError(c, err)
		return
	}
	if result == nil {
		// Unknown id: the rule was deleted underneath the edit; the
		// console treats this as success with nothing to show.
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RuleHandler) Delete(c *gin.Context) {
	cmd := ruleapp.DeleteRuleCommand{ID: c.Param("id")}
	if _, err := commands.Dispatch[ruleapp.DeleteRuleCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type duplicateRuleRequest struct {
	TargetPropertyIDs []string `json:"target_property_ids"`
}

func (h RuleHandler) Duplicate(c *gin.Context) {
	var req duplicateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := ruleapp.DuplicateRuleCommand{ID: c.Param("id"), TargetPropertyIDs: req.TargetPropertyIDs}
	result, err := commands.Dispatch[ruleapp.DuplicateRuleCommand, []dto.Rule](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h RuleHandler) ApplyToAll(c *gin.Context) {
	cmd := ruleapp.ApplyRuleToAllCommand{ID: c.Param("id")}
	result, err := commands.Dispatch[ruleapp.ApplyRuleToAllCommand, *dto.Rule](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleError maps domain failures onto HTTP statuses: unknown ids are
// 404, rejected definitions are 422, everything else is a 500.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainrules.ErrRuleNotFound),
		errors.Is(err, notes.ErrNoteNotFound),
		errors.Is(err, memory.ErrPropertyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domainrules.ErrNameRequired),
		errors.Is(err, domainrules.ErrEffectRequired),
		errors.Is(err, domainrules.ErrStayNights),
		errors.Is(err, domainrules.ErrInvalidWindow),
		errors.Is(err, domainrules.ErrInvalidDay),
		errors.Is(err, domainrules.ErrUnknownChannel),
		errors.Is(err, dto.ErrUnknownRuleType),
		errors.Is(err, dto.ErrBadDate),
		errors.Is(err, dto.ErrWindowPair),
		errors.Is(err, notes.ErrContentRequired),
		errors.Is(err, ruleapp.ErrNoTargets),
		errors.Is(err, calendarapp.ErrBadRange):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseDateParam(c *gin.Context, key string) (time.Time, bool) {
	raw := c.Query(key)
	day, err := time.Parse(dto.DateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key + ", expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return day, true
}

var _ RuleHTTP = RuleHandler{}
