package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/simcase/internal/reader"
	"github.com/roach88/simcase/internal/store"
	"github.com/roach88/simcase/internal/value"
)

// Case file encodings the CLI can read.
const (
	EncodingJSON   = "json"
	EncodingBSON   = "bson"
	EncodingSQLite = "sqlite"
)

// detectEncoding resolves the file encoding from an explicit flag or,
// when the flag is empty, the file extension. JSON is the fallback.
func detectEncoding(path, flag string) (string, error) {
	if flag != "" {
		switch flag {
		case EncodingJSON, EncodingBSON, EncodingSQLite:
			return flag, nil
		}
		return "", fmt.Errorf("invalid encoding %q: must be one of [json bson sqlite]", flag)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bson":
		return EncodingBSON, nil
	case ".db", ".sqlite", ".sqlite3":
		return EncodingSQLite, nil
	default:
		return EncodingJSON, nil
	}
}

// loadDocument reads a recorded case file in any supported encoding into
// a Document. driverCount is only needed for the keyless BSON stream.
func loadDocument(path, encoding string, driverCount int) (*reader.Document, error) {
	switch encoding {
	case EncodingJSON:
		f, err := os.Open(path)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "open case file", err)
		}
		defer f.Close()
		doc, err := reader.ReadJSON(f)
		if err != nil {
			return nil, WrapExitError(ExitFailure, "parse case file", err)
		}
		return doc, nil

	case EncodingBSON:
		f, err := os.Open(path)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "open case file", err)
		}
		defer f.Close()
		doc, err := reader.ReadBSON(f, driverCount)
		if err != nil {
			return nil, WrapExitError(ExitFailure, "parse case file", err)
		}
		return doc, nil

	case EncodingSQLite:
		return loadStoreDocument(path)

	default:
		return nil, WrapExitError(ExitCommandError, "unknown encoding", fmt.Errorf("%q", encoding))
	}
}

// loadStoreDocument rebuilds a Document from a SQLite case store. The
// file's first run is used; recorded files hold one run per session.
func loadStoreDocument(path string) (*reader.Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "open case store", err)
	}
	s, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open case store", err)
	}
	defer s.Close()

	ctx := context.Background()
	runs, err := s.Runs(ctx)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "read runs", err)
	}
	if len(runs) == 0 {
		return nil, WrapExitError(ExitFailure, "read runs", fmt.Errorf("store has no recorded runs"))
	}
	run := runs[0]

	doc := &reader.Document{}
	simInfo, err := reader.ParseJSON([]byte(run.SimInfo))
	if err != nil {
		return nil, WrapExitError(ExitFailure, "parse simulation info", err)
	}
	doc.Sections = append(doc.Sections, reader.Section{Key: "simulation_info", Value: simInfo})

	drivers, err := s.Drivers(ctx, run.UUID)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "read drivers", err)
	}
	for _, d := range drivers {
		info, err := reader.ParseJSON([]byte(d.Info))
		if err != nil {
			return nil, WrapExitError(ExitFailure, fmt.Sprintf("parse driver_info_%d", d.Seq), err)
		}
		doc.Sections = append(doc.Sections, reader.Section{
			Key:   fmt.Sprintf("driver_info_%d", d.Seq),
			Value: info,
		})
	}

	cases, err := s.Cases(ctx, run.UUID)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "read cases", err)
	}
	for _, c := range cases {
		data, err := reader.ParseJSON([]byte(c.Data))
		if err != nil {
			return nil, WrapExitError(ExitFailure, fmt.Sprintf("parse iteration_case_%d data", c.Num), err)
		}
		rec := value.FromPairs(
			value.Pair{Key: "_id", Val: value.String(c.ID)},
			value.Pair{Key: "_parent_id", Val: value.String(c.ParentID)},
			value.Pair{Key: "_driver_id", Val: value.String(c.DriverID)},
			value.Pair{Key: "error_status", Val: value.Null{}},
			value.Pair{Key: "error_message", Val: value.String(c.ErrorMessage)},
			value.Pair{Key: "timestamp", Val: value.Float(c.Timestamp)},
			value.Pair{Key: "data", Val: data},
		)
		doc.Sections = append(doc.Sections, reader.Section{
			Key:   fmt.Sprintf("iteration_case_%d", c.Num),
			Value: rec,
		})
	}
	return doc, nil
}
