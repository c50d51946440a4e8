package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"ratedesk/internal/app/commands"
	"ratedesk/internal/app/dto"
	noteapp "ratedesk/internal/app/handlers/notes"
	"ratedesk/internal/app/queries"
)

type NoteHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func (h NoteHandler) ForCell(c *gin.Context) {
	date, ok := parseDateParam(c, "date")
	if !ok {
		return
	}
	query := noteapp.GetCellNoteQuery{PropertyID: c.Param("id"), Date: date}
	result, err := queries.Ask[noteapp.GetCellNoteQuery, *dto.CellNote](c.Request.Context(), h.Queries, query)
	if err != nil {
		handleError(c, err)
		return
	}
	if result == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, result)
}

type createNoteRequest struct {
	PropertyID string `json:"property_id"`
	Date       string `json:"date"`
	Content    string `json:"content"`
}

func (h NoteHandler) Create(c *gin.Context) {
	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse(dto.DateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}
	cmd := noteapp.AddNoteCommand{PropertyID: req.PropertyID, Date: date, Content: req.Content}
	result, err := commands.Dispatch[noteapp.AddNoteCommand, *dto.CellNote](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type updateNoteRequest struct {
	Content string `json:"content"`
}

func (h NoteHandler) Update(c *gin.Context) {
	var req updateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := noteapp.UpdateNoteCommand{ID: c.Param("id"), Content: req.Content}
	result, err := commands.Dispatch[noteapp.UpdateNoteCommand, *dto.CellNote](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		handleError(c, err)
		return
	}
	if result == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h NoteHandler) Delete(c *gin.Context) {
	cmd := noteapp.DeleteNoteCommand{ID: c.Param("id")}
	if _, err := commands.Dispatch[noteapp.DeleteNoteCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

var _ NoteHTTP = NoteHandler{}
