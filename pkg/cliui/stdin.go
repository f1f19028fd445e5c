package cliui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadArg returns value, or the whole of stdin when value is "-".
func ReadArg(value string) (string, error) {
	if value != "-" {
		return value, nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// ReadLines returns args, or non-empty stdin lines when the sole
// argument is "-". Used by commands that accept ID lists.
func ReadLines(args []string) ([]string, error) {
	if len(args) != 1 || args[0] != "-" {
		return args, nil
	}

	var lines []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return lines, nil
}

// Confirm prompts on stderr and reads a y/N answer from stdin.
func Confirm(prompt string) (bool, error) {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", prompt)

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
