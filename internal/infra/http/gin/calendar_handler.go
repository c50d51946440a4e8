package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"ratedesk/internal/app/dto"
	calendarapp "ratedesk/internal/app/handlers/calendar"
	"ratedesk/internal/app/queries"
	domainrules "ratedesk/internal/domain/rules"
)

type CalendarHandler struct {
	Queries queries.Bus
}

func (h CalendarHandler) Calendar(c *gin.Context) {
	from, ok := parseDateParam(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateParam(c, "to")
	if !ok {
		return
	}
	channel, ok := parseChannelParam(c, false)
	if !ok {
		return
	}
	query := calendarapp.GetCalendarQuery{
		PropertyID: c.Param("id"),
		From:       from,
		To:         to,
		Channel:    channel,
	}
	result, err := queries.Ask[calendarapp.GetCalendarQuery, dto.Calendar](c.Request.Context(), h.Queries, query)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h CalendarHandler) ChannelPrice(c *gin.Context) {
	date, ok := parseDateParam(c, "date")
	if !ok {
		return
	}
	channel, ok := parseChannelParam(c, true)
	if !ok {
		return
	}
	query := calendarapp.GetChannelPriceQuery{
		PropertyID: c.Param("id"),
		Date:       date,
		Channel:    channel,
	}
	result, err := queries.Ask[calendarapp.GetChannelPriceQuery, dto.ChannelPrice](c.Request.Context(), h.Queries, query)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h CalendarHandler) MinStay(c *gin.Context) {
	date, ok := parseDateParam(c, "date")
	if !ok {
		return
	}
	channel, ok := parseChannelParam(c, false)
	if !ok {
		return
	}
	query := calendarapp.GetMinStayQuery{
		PropertyID: c.Param("id"),
		Date:       date,
		Channel:    channel,
	}
	result, err := queries.Ask[calendarapp.GetMinStayQuery, dto.MinStayResult](c.Request.Context(), h.Queries, query)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// parseChannelParam reads the optional channel query argument; required
// flags the endpoints where a concrete channel must be named.
func parseChannelParam(c *gin.Context, required bool) (domainrules.Channel, bool) {
	raw := c.Query("channel")
	if raw == "" {
		if required {
			c.JSON(http.StatusBadRequest, gin.H{"error": "channel is required"})
			return "", false
		}
		return "", true
	}
	channel, err := domainrules.ParseChannel(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return channel, true
}

var _ CalendarHTTP = CalendarHandler{}
