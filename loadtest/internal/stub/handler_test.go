package stub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-crowd-signage/internal/infra/displayqueue"
	"github.com/KasumiMercury/primind-crowd-signage/internal/infra/weather"
)

func newStubServer(t *testing.T) (*httptest.Server, *RunStorage) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	storage := NewRunStorage()
	r := gin.New()
	NewHandler(storage).Register(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv, storage
}

func TestWeatherStubServesClient(t *testing.T) {
	srv, storage := newStubServer(t)

	storage.SetWeather(defaultRunID, SeedCity{Name: "Seoul", Main: "Rain", Description: "light rain", Temp: 12.5})
	storage.SetWeather(defaultRunID, SeedCity{Name: "Busan", Main: "Clear", FailStatus: http.StatusServiceUnavailable})

	client := weather.NewClient(srv.URL, "test-key", time.Second)

	got, err := client.CurrentConditions(context.Background(), "seoul")
	if err != nil {
		t.Fatalf("CurrentConditions() error = %v", err)
	}
	if got.Main != "Rain" || got.Description != "light rain" || got.TempCelsius != 12.5 {
		t.Errorf("CurrentConditions() = %+v", got)
	}

	if _, err := client.CurrentConditions(context.Background(), "Busan"); err == nil {
		t.Error("CurrentConditions() for failing city should return an error")
	}

	if _, err := client.CurrentConditions(context.Background(), "Tokyo"); err == nil {
		t.Error("CurrentConditions() for unknown city should return an error")
	}
}

func TestDisplayStubRecordsTasks(t *testing.T) {
	srv, storage := newStubServer(t)

	sink := displayqueue.NewSinkClient(srv.URL+"/display?run_id=run-1", 1)

	tasks := []*displayqueue.DisplayTask{
		{DecisionID: "d-1", Transition: "start", AdID: "ad_01", DisplayRef: "a.mp4", Reason: "Targeted (Crowd)", IssuedAt: time.Now()},
		{DecisionID: "d-2", Transition: "clear", Reason: "No Ad Found", IssuedAt: time.Now()},
	}
	for _, task := range tasks {
		resp, err := sink.Dispatch(context.Background(), task)
		if err != nil {
			t.Fatalf("Dispatch() error = %v", err)
		}
		if !strings.HasPrefix(resp.Name, "runs/run-1/tasks/") {
			t.Errorf("Dispatch() name = %q", resp.Name)
		}
	}

	got := storage.Tasks("run-1")
	if len(got) != 2 {
		t.Fatalf("stored %d tasks, want 2", len(got))
	}
	if got[0].AdID != "ad_01" || got[1].Transition != "clear" {
		t.Errorf("stored tasks = %+v", got)
	}
	if len(storage.Tasks(defaultRunID)) != 0 {
		t.Error("default run should be untouched")
	}

	req := httptest.NewRequest(http.MethodPost, "/stub/reset?run_id=run-1", nil)
	w := httptest.NewRecorder()
	srv.Config.Handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("reset status = %d", w.Code)
	}
	if len(storage.Tasks("run-1")) != 0 {
		t.Error("reset should drop stored tasks")
	}
}

func TestDisplayStubRejectsIncompleteTask(t *testing.T) {
	srv, _ := newStubServer(t)

	resp, err := http.Post(srv.URL+"/display", "application/json", strings.NewReader(`{"reason":"x"}`))
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}
