package utxo

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/txscript"

	"github.com/vultisig/deposit/internal/types"
)

// EncodeMemo compiles memo into an OP_RETURN null-data script with a single data push.
// A memo whose payload exceeds maxBytes is rejected, never truncated.
func EncodeMemo(memo string, maxBytes int) ([]byte, error) {
	data := []byte(memo)
	if len(data) == 0 {
		return nil, errors.New("memo is empty")
	}
	if len(data) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes, max %d", types.ErrMemoTooLarge, len(data), maxBytes)
	}

	// OP_RETURN <push data>, always a data push so single-byte memos stay data
	script := make([]byte, 0, 3+len(data))
	script = append(script, txscript.OP_RETURN)
	switch {
	case len(data) < txscript.OP_PUSHDATA1:
		script = append(script, byte(len(data)))
	case len(data) <= 0xff:
		script = append(script, txscript.OP_PUSHDATA1, byte(len(data)))
	default:
		return nil, fmt.Errorf("%w: %d bytes exceeds a single push", types.ErrMemoTooLarge, len(data))
	}
	script = append(script, data...)
	return script, nil
}

// DecodeMemo returns the memo carried by an OP_RETURN script built by EncodeMemo.
func DecodeMemo(script []byte) (string, error) {
	if len(script) == 0 || script[0] != txscript.OP_RETURN {
		return "", errors.New("not a null-data script")
	}

	pushes, err := txscript.PushedData(script)
	if err != nil {
		return "", fmt.Errorf("failed to parse memo script: %w", err)
	}
	if len(pushes) != 1 {
		return "", fmt.Errorf("expected a single data push, got %d", len(pushes))
	}
	return string(pushes[0]), nil
}

// IsMemoScript reports whether script is an OP_RETURN output.
func IsMemoScript(script []byte) bool {
	return len(script) > 0 && script[0] == txscript.OP_RETURN
}
