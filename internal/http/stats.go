package http

import (
	"github.com/gin-gonic/gin"

	"github.com/Miguel-Lopes31/poetas-mortos/internal/entities"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/stats"
)

// StatsController exposes the derived statistics endpoints.
type StatsController struct {
	service *stats.Service
}

// NewStatsController creates a new StatsController.
func NewStatsController(service *stats.Service) *StatsController {
	return &StatsController{service: service}
}

// pagesDayDTO is the wire shape of one daily pages point.
type pagesDayDTO struct {
	Date  entities.Date `json:"date"`
	Pages int           `json:"pages"`
}

// pagesMonthDTO is the wire shape of one monthly pages bucket.
type pagesMonthDTO struct {
	Month string `json:"month"`
	Pages int    `json:"pages"`
}

// pagesYearDTO is the wire shape of one yearly pages bucket.
type pagesYearDTO struct {
	Year  int `json:"year"`
	Pages int `json:"pages"`
}

// spendingMonthDTO is the wire shape of one monthly spending bucket.
type spendingMonthDTO struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// Overview handles GET /api/stats/overview.
func (sc *StatsController) Overview(c *gin.Context) {
	userID := GetUserID(c)

	overview, err := sc.service.Overview(userID, entities.Today())
	if err != nil {
		respondInternalError(c, err, "stats overview")
		return
	}

	c.JSON(200, overview)
}

// Pages handles GET /api/stats/pages?period=day|month|year.
// Defaults to month when the period is omitted. The response is the
// bare ordered series for the chosen period.
func (sc *StatsController) Pages(c *gin.Context) {
	userID := GetUserID(c)
	today := entities.Today()

	period := c.DefaultQuery("period", "month")
	switch period {
	case "day":
		points, err := sc.service.PagesByDay(userID, today)
		if err != nil {
			respondInternalError(c, err, "pages by day")
			return
		}
		out := make([]pagesDayDTO, 0, len(points))
		for _, p := range points {
			out = append(out, pagesDayDTO{Date: p.Date, Pages: int(p.Value)})
		}
		c.JSON(200, out)

	case "month":
		points, err := sc.service.PagesByMonth(userID, today)
		if err != nil {
			respondInternalError(c, err, "pages by month")
			return
		}
		out := make([]pagesMonthDTO, 0, len(points))
		for _, p := range points {
			out = append(out, pagesMonthDTO{Month: p.Month, Pages: int(p.Value)})
		}
		c.JSON(200, out)

	case "year":
		points, err := sc.service.PagesByYear(userID, today)
		if err != nil {
			respondInternalError(c, err, "pages by year")
			return
		}
		out := make([]pagesYearDTO, 0, len(points))
		for _, p := range points {
			out = append(out, pagesYearDTO{Year: p.Year, Pages: int(p.Value)})
		}
		c.JSON(200, out)

	default:
		respondBadRequest(c, "period must be one of: day, month, year")
	}
}

// Spending handles GET /api/stats/spending.
func (sc *StatsController) Spending(c *gin.Context) {
	userID := GetUserID(c)

	spending, err := sc.service.Spending(userID, entities.Today())
	if err != nil {
		respondInternalError(c, err, "stats spending")
		return
	}

	monthly := make([]spendingMonthDTO, 0, len(spending.Monthly))
	for _, p := range spending.Monthly {
		monthly = append(monthly, spendingMonthDTO{Month: p.Month, Amount: p.Value})
	}

	c.JSON(200, gin.H{
		"total":   spending.Total,
		"monthly": monthly,
	})
}

// ReadingTime handles GET /api/stats/reading-time.
func (sc *StatsController) ReadingTime(c *gin.Context) {
	userID := GetUserID(c)

	rt, err := sc.service.ReadingTime(userID)
	if err != nil {
		respondInternalError(c, err, "stats reading time")
		return
	}

	c.JSON(200, rt)
}

// Publishers handles GET /api/stats/publishers.
func (sc *StatsController) Publishers(c *gin.Context) {
	userID := GetUserID(c)

	counts, err := sc.service.Publishers(userID)
	if err != nil {
		respondInternalError(c, err, "stats publishers")
		return
	}

	c.JSON(200, counts)
}
