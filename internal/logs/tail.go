package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const (
	maxLineBytes = 1024 * 1024
	pollInterval = 250 * time.Millisecond
)

// Chunk is a batch of lines and the byte offset just past them.
type Chunk struct {
	Lines  []string
	Offset int64
}

// Last returns up to limit trailing lines of path. A missing file yields an
// empty chunk at offset zero. A non-positive limit returns no lines but still
// reports the end offset.
func Last(path string, limit int) (Chunk, error) {
	file, err := open(path)
	if file == nil {
		return Chunk{}, err
	}
	defer file.Close()

	if limit <= 0 {
		end, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			return Chunk{}, fmt.Errorf("seek log file: %w", err)
		}
		return Chunk{Offset: end}, nil
	}

	ring := make([]string, limit)
	count, next := 0, 0
	var offset int64
	err = scanLines(file, func(line string, n int) {
		ring[next] = line
		next = (next + 1) % limit
		if count < limit {
			count++
		}
		offset += int64(n)
	})
	if err != nil {
		return Chunk{}, err
	}

	lines := make([]string, 0, count)
	start := 0
	if count == limit {
		start = next
	}
	for i := 0; i < count; i++ {
		lines = append(lines, ring[(start+i)%limit])
	}
	return Chunk{Lines: lines, Offset: offset}, nil
}

// Read returns the complete lines of path at or after offset.
func Read(path string, offset int64) (Chunk, error) {
	file, err := open(path)
	if file == nil {
		return Chunk{}, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Chunk{Offset: offset}, fmt.Errorf("stat log file: %w", err)
	}
	if offset < 0 || offset > info.Size() {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return Chunk{Offset: offset}, fmt.Errorf("seek log file: %w", err)
	}

	chunk := Chunk{Offset: offset}
	err = scanLines(file, func(line string, n int) {
		chunk.Lines = append(chunk.Lines, line)
		chunk.Offset += int64(n)
	})
	return chunk, err
}

// Follow polls path from offset until at least one line is available, wait
// elapses, or ctx is done. A zero wait reads once.
func Follow(ctx context.Context, path string, offset int64, wait time.Duration) (Chunk, error) {
	deadline := time.Now().Add(max(wait, 0))
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		chunk, err := Read(path, offset)
		if err != nil || len(chunk.Lines) > 0 || !time.Now().Before(deadline) {
			return chunk, err
		}
		offset = chunk.Offset
		select {
		case <-ctx.Done():
			return chunk, ctx.Err()
		case <-ticker.C:
		}
	}
}

func open(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("log path %q is a directory", path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}

// scanLines reports each newline-terminated line with its byte length
// including the terminator. A trailing partial line is left unread so a
// follower picks it up once ck-cmd finishes writing it.
func scanLines(r io.Reader, fn func(line string, n int)) error {
	reader := bufio.NewReaderSize(r, 64*1024)
	for {
		raw, err := reader.ReadString('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read log file: %w", err)
		}
		line := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
		if len(line) > maxLineBytes {
			line = line[:maxLineBytes]
		}
		fn(line, len(raw))
	}
}
