package db

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ghassen-kharrat/barbachli-sub000/pkg/logger"
)

func statement() (string, int64) { return "SELECT * FROM orders", 3 }

func TestQueryLoggerReportsSlowAndFailedStatements(t *testing.T) {
	var buf bytes.Buffer
	q := newQueryLogger(logger.New(logger.Options{ServiceName: "db-test", Output: &buf}), 50*time.Millisecond)
	ctx := context.Background()

	q.Trace(ctx, time.Now(), statement, nil)
	q.Trace(ctx, time.Now(), statement, gorm.ErrRecordNotFound)
	if buf.Len() != 0 {
		t.Fatalf("fast and not-found statements should stay quiet: %s", buf.String())
	}

	q.Trace(ctx, time.Now().Add(-time.Second), statement, nil)
	if !strings.Contains(buf.String(), "db.query.slow") || !strings.Contains(buf.String(), "SELECT * FROM orders") {
		t.Fatalf("expected slow query entry: %s", buf.String())
	}

	buf.Reset()
	q.Trace(ctx, time.Now(), statement, errors.New("relation does not exist"))
	if !strings.Contains(buf.String(), "db.query.failed") {
		t.Fatalf("expected failed query entry: %s", buf.String())
	}
}

func TestQueryLoggerSilentMode(t *testing.T) {
	var buf bytes.Buffer
	q := newQueryLogger(logger.New(logger.Options{ServiceName: "db-test", Output: &buf}), 0).LogMode(gormlogger.Silent)
	q.Trace(context.Background(), time.Now().Add(-time.Minute), statement, errors.New("boom"))
	q.Warn(context.Background(), "pool %s", "exhausted")
	if buf.Len() != 0 {
		t.Fatalf("silent logger wrote: %s", buf.String())
	}
}
