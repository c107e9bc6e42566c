package bridge

import (
	"fmt"

	"github.com/editkit/tsbridge/internal/protocol"
)

// The editor addresses text with 0-based line/column pairs; the worker
// uses 1-based line/offset pairs. Conversions are pure and total except
// for negative input, which is rejected with ErrInvalidRange.

// toWorkerLocation converts an editor position to worker addressing.
func toWorkerLocation(line, col int) (protocol.Location, error) {
	if line < 0 || col < 0 {
		return protocol.Location{}, fmt.Errorf("%w: line %d col %d", ErrInvalidRange, line, col)
	}
	return protocol.Location{Line: line + 1, Offset: col + 1}, nil
}

// toWorkerRange converts an editor range to worker start/end locations.
func toWorkerRange(startLine, startCol, endLine, endCol int) (start, end protocol.Location, err error) {
	if start, err = toWorkerLocation(startLine, startCol); err != nil {
		return protocol.Location{}, protocol.Location{}, err
	}
	if end, err = toWorkerLocation(endLine, endCol); err != nil {
		return protocol.Location{}, protocol.Location{}, err
	}
	return start, end, nil
}

// fromWorkerLocation converts a worker position to editor addressing.
// Out-of-range worker values clamp to the first line/column rather than
// failing, since malformed responses must degrade, not propagate.
func fromWorkerLocation(loc protocol.Location) (line, col int) {
	line = loc.Line - 1
	col = loc.Offset - 1
	if line < 0 {
		line = 0
	}
	if col < 0 {
		col = 0
	}
	return line, col
}

// fromWorkerRange converts worker start/end locations to an editor range.
func fromWorkerRange(start, end protocol.Location) (startLine, startCol, endLine, endCol int) {
	startLine, startCol = fromWorkerLocation(start)
	endLine, endCol = fromWorkerLocation(end)
	return startLine, startCol, endLine, endCol
}
