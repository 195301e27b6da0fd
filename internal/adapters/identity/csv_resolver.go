package identity

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadCSV builds a resolver from a user table with a "user_id,token" header
//
// The file is read once; later edits need a restart.
func LoadCSV(path string) (*StaticResolver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open user table: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses a user table; column order is taken from the header row
func ReadCSV(r io.Reader) (*StaticResolver, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("user table is empty")
		}
		return nil, fmt.Errorf("failed to read user table header: %w", err)
	}

	userCol, tokenCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "user_id", "username", "user":
			userCol = i
		case "token", "session_token":
			tokenCol = i
		}
	}
	if userCol < 0 || tokenCol < 0 {
		return nil, fmt.Errorf("user table header must name user_id and token columns, got %v", header)
	}

	users := make(map[string]string)
	seenUsers := make(map[string]int)
	seenTokens := make(map[string]int)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("user table line %d: %w", line, err)
		}

		user := strings.TrimSpace(record[userCol])
		token := strings.TrimSpace(record[tokenCol])
		if user == "" || token == "" {
			continue
		}
		if first, ok := seenUsers[user]; ok {
			return nil, fmt.Errorf("user table line %d: user %q already listed on line %d", line, user, first)
		}
		if first, ok := seenTokens[token]; ok {
			return nil, fmt.Errorf("user table line %d: token already assigned on line %d", line, first)
		}
		seenUsers[user] = line
		seenTokens[token] = line
		users[user] = token
	}

	return NewStaticResolver(users)
}
