package obs

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	flags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	return &buf
}

func TestTime(t *testing.T) {
	buf := captureLog(t)
	ctx := WithRequestID(context.Background(), "r-1")

	func() (err error) {
		defer Time(ctx, "kakao.directions")(&err)
		return errors.New("boom")
	}()
	func() (err error) {
		defer Time(context.Background(), "cache.get")(&err)
		return nil
	}()

	out := buf.String()
	assert.Contains(t, out, "req_id=r-1 op=kakao.directions dur=")
	assert.Contains(t, out, "err=boom")
	assert.Contains(t, out, "req_id= op=cache.get dur=")
	assert.Equal(t, "r-1", RequestID(ctx))
}
