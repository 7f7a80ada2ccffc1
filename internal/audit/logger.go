// internal/audit/logger.go
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Event represents an audit log entry
type Event struct {
	Timestamp  time.Time `json:"timestamp"`
	User       string    `json:"user"`
	Action     string    `json:"action"`
	Provider   string    `json:"provider,omitempty"`
	RepoName   string    `json:"repo_name,omitempty"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	DiffChars  int       `json:"diff_chars,omitempty"`
	DurationMS int64     `json:"duration_ms"`
}

// Logger appends events as JSON lines to a monthly file
type Logger struct {
	logDir   string
	enabled  bool
	repoName string
	now      func() time.Time
	mu       sync.Mutex
}

// NewLogger creates a new audit logger
func NewLogger(configDir string, enabled bool) (*Logger, error) {
	logDir := filepath.Join(configDir, "audit")
	if enabled {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, err
		}
	}

	return &Logger{
		logDir:  logDir,
		enabled: enabled,
		now:     time.Now,
	}, nil
}

// SetRepoName tags subsequent events with the repository name
func (l *Logger) SetRepoName(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.repoName = name
}

// LogEvent records an audit event
func (l *Logger) LogEvent(event Event) error {
	if !l.enabled {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = l.now()
	}
	if event.RepoName == "" {
		event.RepoName = l.repoName
	}
	if event.User == "" {
		event.User = currentUser()
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(l.pathFor(event.Timestamp), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(eventJSON, '\n'))
	return err
}

// Summary counts events by status
type Summary struct {
	Total    int            `yaml:"total"`
	ByStatus map[string]int `yaml:"by_status"`
}

// Summarize reads the events of the last days
func (l *Logger) Summarize(days int) (Summary, error) {
	sum := Summary{ByStatus: map[string]int{}}
	since := l.now().AddDate(0, 0, -days)

	files, err := filepath.Glob(filepath.Join(l.logDir, "*-audit.log"))
	if err != nil {
		return sum, err
	}

	for _, path := range files {
		if err := readEvents(path, func(e Event) {
			if e.Timestamp.Before(since) {
				return
			}
			sum.Total++
			sum.ByStatus[e.Status]++
		}); err != nil {
			return sum, err
		}
	}
	return sum, nil
}

func (l *Logger) pathFor(t time.Time) string {
	return filepath.Join(l.logDir, fmt.Sprintf("%s-audit.log", t.Format("2006-01")))
}

func readEvents(path string, fn func(Event)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Event
		if json.Unmarshal(scanner.Bytes(), &e) == nil {
			fn(e)
		}
	}
	return scanner.Err()
}

func currentUser() string {
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return "unknown"
}
