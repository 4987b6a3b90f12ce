// Package output's TOON support shells out to an external "tru" binary
// rather than implementing the encoding natively: cmdgate treats TOON the
// same way the rest of this pack treats any format-conversion tool it
// doesn't own, as a CLI wrapper (see internal/cli/completion.go's use of
// the catalog for the same "delegate, don't reimplement" instinct applied
// to shell completion data instead of an encoding).
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// TOONBinaryName is the name of the TOON encoder/decoder binary.
const TOONBinaryName = "tru"

// toonBinary locates the tru binary: an explicit TRU_PATH override, then
// PATH, then the usual per-user install locations.
func toonBinary() (string, error) {
	if path := os.Getenv("TRU_PATH"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath(TOONBinaryName); err == nil {
		return path, nil
	}

	home, _ := os.UserHomeDir()
	for _, path := range []string{
		filepath.Join(home, ".local", "bin", TOONBinaryName),
		filepath.Join(home, "bin", TOONBinaryName),
		"/usr/local/bin/" + TOONBinaryName,
	} {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("%s binary not found; install with: cargo install toon_rust", TOONBinaryName)
}

// TOONAvailable returns true if the TOON binary is available.
func TOONAvailable() bool {
	_, err := toonBinary()
	return err == nil
}

// runTOON pipes input through the tru binary with the given mode flag
// ("-e" to encode, "-d" to decode) and returns its stdout.
func runTOON(flag string, input []byte) ([]byte, error) {
	binPath, err := toonBinary()
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(binPath, flag)
	cmd.Stdin = bytes.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	verb := "encode"
	if flag == "-d" {
		verb = "decode"
	}
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s %s failed: %s: %w", TOONBinaryName, verb, stderr.String(), err)
	}
	return stdout.Bytes(), nil
}

// EncodeTOON encodes data to TOON format using the CLI wrapper.
func EncodeTOON(data any) (string, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("JSON marshal failed: %w", err)
	}
	out, err := runTOON("-e", jsonBytes)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// DecodeTOON decodes TOON format to data using the CLI wrapper.
func DecodeTOON(toonStr string) (any, error) {
	out, err := runTOON("-d", []byte(toonStr))
	if err != nil {
		return nil, err
	}
	var result any
	if err := json.Unmarshal(out, &result); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}
	return result, nil
}

// writeTOON writes data in TOON format, falling back to indented JSON if
// the tru binary isn't available or fails.
func (w *Writer) writeTOON(data any) error {
	toonStr, err := EncodeTOON(data)
	if err != nil {
		fmt.Fprintf(w.errOut, "warning: TOON encoding failed, falling back to JSON: %v\n", err)
		enc := json.NewEncoder(w.out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	_, err = w.out.Write([]byte(toonStr))
	return err
}
