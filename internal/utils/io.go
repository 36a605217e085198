package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadLine reads a single line from r and returns it without the line terminator.
// A final line without a newline is returned as-is; EOF with no data is an error.
func ReadLine(r io.Reader) (string, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	line, err := br.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", fmt.Errorf("failed to read line: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}
