package stub

import (
	"strings"
	"sync"
)

type cityWeather struct {
	Main        string
	Description string
	Temp        float64
	FailStatus  int
}

// RunStorage keeps seeded weather and received display tasks per load test run.
type RunStorage struct {
	mu      sync.RWMutex
	weather map[string]map[string]cityWeather // runID -> lower-cased city -> weather
	tasks   map[string][]DisplayTask          // runID -> tasks in arrival order
}

func NewRunStorage() *RunStorage {
	return &RunStorage{
		weather: make(map[string]map[string]cityWeather),
		tasks:   make(map[string][]DisplayTask),
	}
}

func (s *RunStorage) Reset(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.weather, runID)
	delete(s.tasks, runID)
}

func (s *RunStorage) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weather = make(map[string]map[string]cityWeather)
	s.tasks = make(map[string][]DisplayTask)
}

func (s *RunStorage) SetWeather(runID string, city SeedCity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cities, ok := s.weather[runID]
	if !ok {
		cities = make(map[string]cityWeather)
		s.weather[runID] = cities
	}
	cities[strings.ToLower(city.Name)] = cityWeather{
		Main:        city.Main,
		Description: city.Description,
		Temp:        city.Temp,
		FailStatus:  city.FailStatus,
	}
}

func (s *RunStorage) Weather(runID, city string) (cityWeather, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.weather[runID][strings.ToLower(city)]
	return w, ok
}

// AppendTask stores a task and returns its position within the run.
func (s *RunStorage) AppendTask(runID string, task DisplayTask) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[runID] = append(s.tasks[runID], task)
	return len(s.tasks[runID])
}

func (s *RunStorage) Tasks(runID string) []DisplayTask {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]DisplayTask, len(s.tasks[runID]))
	copy(tasks, s.tasks[runID])
	return tasks
}
