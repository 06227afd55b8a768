// Package tasks runs the catalog's background jobs on a backlite queue
// stored in its own SQLite file next to the catalog database.
package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
)

const queueDSNParams = "?_journal=WAL&_timeout=5000&_busy_timeout=5000"

// Client owns the queue database and the backlite workers reading it.
type Client struct {
	queue   *backlite.Client
	db      *sql.DB
	config  Config
	running atomic.Bool
}

// TasksDBPath derives the queue database path from the catalog database
// path: "./locallibrary.db" becomes "./locallibrary-tasks.db".
func TasksDBPath(mainDBPath string) string {
	dir, file := filepath.Split(mainDBPath)
	ext := filepath.Ext(file)
	return filepath.Join(dir, strings.TrimSuffix(file, ext)+"-tasks"+ext)
}

// NewClient opens the queue database beside mainDBPath and installs the
// backlite schema into it.
func NewClient(mainDBPath string, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	db, err := openQueueDB(TasksDBPath(mainDBPath), cfg.Workers)
	if err != nil {
		return nil, err
	}

	queue, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          queueLogger{},
	})
	if err == nil {
		err = queue.Install()
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up task queue: %w", err)
	}

	return &Client{queue: queue, db: db, config: cfg}, nil
}

func openQueueDB(path string, workers int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+queueDSNParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open task database %s: %w", path, err)
	}
	// Every worker holds a connection while the dispatcher and producers
	// need a few more.
	db.SetMaxOpenConns(workers + 5)
	db.SetMaxIdleConns(workers + 2)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// Register adds queues. Call it before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.queue.Register(q)
	}
}

// Start launches the workers. Repeated calls are ignored.
func (c *Client) Start(ctx context.Context) {
	if !c.running.CompareAndSwap(false, true) {
		return
	}
	log.Printf("Task workers running: %d", c.config.Workers)
	c.queue.Start(ctx)
}

// Stop waits for in-flight tasks and reports whether they all finished
// before ctx expired. A client that never started stops trivially.
func (c *Client) Stop(ctx context.Context) bool {
	if !c.running.Load() {
		return true
	}
	drained := c.queue.Stop(ctx)
	if !drained {
		log.Printf("Task workers stopped before in-flight tasks finished")
	}
	return drained
}

// Close releases the queue database. Call it after Stop.
func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Add begins enqueueing tasks; the caller finishes with Save.
func (c *Client) Add(tasks ...backlite.Task) *backlite.TaskAddOp {
	return c.queue.Add(tasks...)
}

// Status looks up a queued or finished task.
func (c *Client) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return c.queue.Status(ctx, taskID)
}

// queueLogger forwards backlite's messages to the standard logger.
type queueLogger struct{}

func (queueLogger) Info(message string, params ...any) {
	log.Printf("tasks: "+message, params...)
}

func (queueLogger) Error(message string, params ...any) {
	log.Printf("tasks error: "+message, params...)
}
