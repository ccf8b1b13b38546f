package store

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// ExecScript executes the SQL statements read from r one after another. A
// statement ends on the line that contains a semicolon. Lines starting with
// "--" are skipped. It returns the number of executed statements.
func (s *Store) ExecScript(ctx context.Context, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	builder := strings.Builder{}
	executed := 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			if _, err := s.db.ExecContext(ctx, builder.String()); err != nil {
				return executed, fmt.Errorf("statement %d: %w", executed+1, err)
			}
			executed++
			builder = strings.Builder{}
		}
	}
	if err := scanner.Err(); err != nil {
		return executed, fmt.Errorf("read script: %w", err)
	}
	if rest := strings.TrimSpace(builder.String()); rest != "" {
		return executed, fmt.Errorf("statement %d: missing terminating semicolon", executed+1)
	}
	return executed, nil
}
