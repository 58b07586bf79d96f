// Package dataset loads ranking samples for the alpha sampler from JSON files, optionally
// zstd-compressed.
package dataset

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/mallows/internal/mallows"
	"github.com/tensorplex-labs/mallows/internal/rankdist"
)

// Dataset is the on-disk form of a ranking sample. Rankings holds one rank vector per
// observation.
type Dataset struct {
	Metric       string      `json:"metric"`
	Consensus    []float64   `json:"consensus"`
	Rankings     [][]float64 `json:"rankings"`
	LogZEstimate []float64   `json:"logz_estimate,omitempty"`
	Alpha        float64     `json:"alpha,omitempty"`
}

// Load reads a dataset from path. Files ending in .zst are decompressed first.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		decoder, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
		defer decoder.Close()
		r = decoder
	}

	return Decode(r)
}

// Decode parses a dataset from r.
func Decode(r io.Reader) (*Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var ds Dataset
	if err := sonic.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	log.Debug().
		Str("metric", ds.Metric).
		Int("n_items", len(ds.Consensus)).
		Int("n_observations", len(ds.Rankings)).
		Msg("dataset decoded")

	return &ds, nil
}

// Params converts the dataset into sampler parameters on top of base. The dataset's alpha
// replaces base.Alpha when set.
func (ds *Dataset) Params(base mallows.AlphaUpdateParams) (mallows.AlphaUpdateParams, error) {
	metric, err := rankdist.ParseMetric(ds.Metric)
	if err != nil {
		return mallows.AlphaUpdateParams{}, err
	}

	rankings, err := rankdist.NewRankingMatrix(ds.Rankings)
	if err != nil {
		return mallows.AlphaUpdateParams{}, fmt.Errorf("rankings: %w", err)
	}

	p := base
	p.Metric = metric
	p.Rankings = rankings
	p.Consensus = ds.Consensus
	p.NItems = len(ds.Consensus)
	p.LogZEstimate = ds.LogZEstimate
	if ds.Alpha != 0 {
		p.Alpha = ds.Alpha
	}
	return p, nil
}

// Save writes the dataset as JSON to path, zstd-compressed when path ends in .zst.
func Save(path string, ds *Dataset) error {
	raw, err := sonic.Marshal(ds)
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}

	if strings.HasSuffix(path, ".zst") {
		encoder, err := zstd.NewWriter(nil)
		if err != nil {
			return fmt.Errorf("create zstd encoder: %w", err)
		}
		raw = encoder.EncodeAll(raw, nil)
		encoder.Close()
	}

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	return nil
}
