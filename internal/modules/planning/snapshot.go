package planning

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/wealthplan/internal/domain"
)

// Recommendation snapshots are stored as msgpack using the json field names,
// so a snapshot decodes into the same shape the API returns.
const snapshotStructTag = "json"

// EncodeSnapshot serializes a recommendation for storage
func EncodeSnapshot(rec domain.PortfolioRecommendation) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag(snapshotStructTag)
	if err := enc.Encode(&rec); err != nil {
		return nil, fmt.Errorf("failed to encode recommendation snapshot %s: %w", rec.ID, err)
	}
	return buf.Bytes(), nil
}

// DecodeSnapshot restores a stored recommendation
func DecodeSnapshot(data []byte) (domain.PortfolioRecommendation, error) {
	var rec domain.PortfolioRecommendation
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag(snapshotStructTag)
	if err := dec.Decode(&rec); err != nil {
		return domain.PortfolioRecommendation{}, fmt.Errorf("failed to decode recommendation snapshot: %w", err)
	}
	return rec, nil
}
