// Package logship ships structured operation records to an external log
// collector over HTTP. Delivery is best-effort: records are queued on a
// buffered channel, posted with a bounded timeout and dropped when the
// collector is unreachable, so the request path is never blocked by logging.
package logship

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	requestTimeout = 5 * time.Second
	queueSize      = 256
	userAgent      = "URL-Shortener-Service/1.0"
)

// Entry is the wire format expected by the log collector.
type Entry struct {
	Stack     string `json:"stack"`
	Level     string `json:"level"`
	Package   string `json:"package"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Client delivers entries to the collector from a single background worker.
type Client struct {
	url    string
	client *http.Client
	queue  chan Entry
	echo   *zap.Logger
	wg     sync.WaitGroup
	once   sync.Once
}

// New starts a client shipping to url. When echo is non-nil every entry is
// also written to the local logger, delivered or not; production setups pass
// nil so the collector is the only consumer.
func New(url string, echo *zap.Logger) *Client {
	c := &Client{
		url:    url,
		client: &http.Client{Timeout: requestTimeout},
		queue:  make(chan Entry, queueSize),
		echo:   echo,
	}

	c.wg.Add(1)
	go c.run()

	return c
}

// Log queues one record. It never blocks: when the queue is full the record
// is dropped.
func (c *Client) Log(level, pkg, message string) {
	entry := Entry{
		Stack:     "backend",
		Level:     level,
		Package:   pkg,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}

	select {
	case c.queue <- entry:
	default:
	}
}

func (c *Client) Debug(pkg, message string) { c.Log("debug", pkg, message) }
func (c *Client) Info(pkg, message string)  { c.Log("info", pkg, message) }
func (c *Client) Warn(pkg, message string)  { c.Log("warn", pkg, message) }
func (c *Client) Error(pkg, message string) { c.Log("error", pkg, message) }
func (c *Client) Fatal(pkg, message string) { c.Log("fatal", pkg, message) }

func (c *Client) run() {
	defer c.wg.Done()

	for entry := range c.queue {
		err := c.post(entry)
		if c.echo != nil {
			fields := []zap.Field{
				zap.String("level", entry.Level),
				zap.String("package", entry.Package),
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}
			c.echo.Info(entry.Message, fields...)
		}
	}
}

func (c *Client) post(entry Entry) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return nil
}

// Close drains the queue and stops the worker. Safe to call once at shutdown.
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.queue)
	})
	c.wg.Wait()
}
