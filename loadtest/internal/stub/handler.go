package stub

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultRunID = "default"

// Handler serves a fake weather API and a fake display player for load tests.
type Handler struct {
	storage *RunStorage
}

func NewHandler(storage *RunStorage) *Handler {
	return &Handler{storage: storage}
}

// Register mounts the stub routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/stub/reset", h.HandleReset)
	r.POST("/stub/weather", h.HandleSeedWeather)
	r.GET("/data/2.5/weather", h.HandleGetWeather)
	r.POST("/display", h.HandleDisplay)
	r.GET("/display", h.HandleGetDisplayLog)
}

func (h *Handler) HandleReset(c *gin.Context) {
	runID := c.DefaultQuery("run_id", defaultRunID)

	h.storage.Reset(runID)

	slog.Info("reset data", slog.String("run_id", runID))

	c.JSON(http.StatusOK, gin.H{
		"status": "reset complete",
		"run_id": runID,
	})
}

func (h *Handler) HandleSeedWeather(c *gin.Context) {
	runID := c.DefaultQuery("run_id", defaultRunID)

	var req SeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, city := range req.Cities {
		h.storage.SetWeather(runID, city)
	}

	slog.Info("seeded weather",
		slog.String("run_id", runID),
		slog.Int("city_count", len(req.Cities)),
	)

	c.JSON(http.StatusOK, gin.H{
		"status":     "seeded",
		"run_id":     runID,
		"city_count": len(req.Cities),
	})
}

// GET /data/2.5/weather?q=...&appid=...&units=metric&run_id=...
func (h *Handler) HandleGetWeather(c *gin.Context) {
	runID := c.DefaultQuery("run_id", defaultRunID)
	city := c.Query("q")

	if city == "" || c.Query("appid") == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q and appid query parameters are required"})
		return
	}

	w, ok := h.storage.Weather(runID, city)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"cod": "404", "message": "city not found"})
		return
	}
	if w.FailStatus != 0 {
		c.JSON(w.FailStatus, gin.H{"cod": fmt.Sprint(w.FailStatus), "message": "seeded failure"})
		return
	}

	slog.Debug("get weather",
		slog.String("run_id", runID),
		slog.String("city", city),
		slog.String("main", w.Main),
	)

	c.JSON(http.StatusOK, WeatherResponse{
		Name:    city,
		Weather: []WeatherEntry{{Main: w.Main, Description: w.Description}},
		Main:    WeatherMain{Temp: w.Temp},
	})
}

// POST /display?run_id=...
func (h *Handler) HandleDisplay(c *gin.Context) {
	runID := c.DefaultQuery("run_id", defaultRunID)

	var task DisplayTask
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if task.DecisionID == "" || task.Transition == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "decision_id and transition are required"})
		return
	}

	seq := h.storage.AppendTask(runID, task)

	slog.Debug("display task received",
		slog.String("run_id", runID),
		slog.String("decision_id", task.DecisionID),
		slog.String("transition", task.Transition),
		slog.String("ad_id", task.AdID),
	)

	c.JSON(http.StatusAccepted, DispatchResponse{
		Name:       fmt.Sprintf("runs/%s/tasks/%d", runID, seq),
		CreateTime: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) HandleGetDisplayLog(c *gin.Context) {
	runID := c.DefaultQuery("run_id", defaultRunID)

	tasks := h.storage.Tasks(runID)
	counts := make(map[string]int)
	for _, t := range tasks {
		counts[t.Transition]++
	}

	c.JSON(http.StatusOK, DisplayLogResponse{
		RunID:  runID,
		Count:  len(tasks),
		Counts: counts,
		Tasks:  tasks,
	})
}
