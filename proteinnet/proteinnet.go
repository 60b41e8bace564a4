//Package proteinnet reads the text records of ProteinNet, which give the
//expected primary sequence and the mask of resolved residues for a chain
//of a PDB structure.
package proteinnet

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

//Record is one ProteinNet record. Only the fields the pipeline needs are kept.
type Record struct {
	StructureID string
	ModelID     int
	ChainID     string
	Primary     string
	Mask        string
}

//ErrStopped is returned by ReadRecords when its context was cancelled
//while it waited to deliver a record.
var ErrStopped = errors.New("stopped successfully")

//ParseID parses a "<pdb>_<model>_<chain>" record identifier. ok is false
//for the two-part ASTRAL identifiers, which name no chain.
func ParseID(id string) (pdb string, model int, chain string, ok bool, err error) {
	parts := strings.Split(id, "_")
	switch len(parts) {
	case 3:
		m, err := strconv.Atoi(parts[1])
		if err != nil {
			return "", 0, "", false, fmt.Errorf("failed to parse model ID '%v': %w", parts[1], err)
		}
		return strings.ToLower(parts[0]), m, parts[2], true, nil
	case 2:
		return "", 0, "", false, nil
	}
	return "", 0, "", false, fmt.Errorf("malformed ID format '%v'", id)
}

//ReadRecords parses records from r and sends them to results, which it
//closes on return. A record ends at a blank line. Records with ASTRAL
//identifiers are skipped.
func ReadRecords(ctx context.Context, r io.Reader, results chan<- *Record) error {
	defer close(results)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var next *Record
	field := func(what string) (string, error) {
		if !scanner.Scan() {
			return "", fmt.Errorf("expected %s", what)
		}
		return scanner.Text(), nil
	}
	emit := func() error {
		if next == nil {
			return nil
		}
		if got, expected := len(next.Mask), len(next.Primary); got != expected {
			return fmt.Errorf("%s_%d_%s: mask length (got %v, expected %v)", next.StructureID, next.ModelID, next.ChainID, got, expected)
		}
		select {
		case results <- next:
			next = nil
			return nil
		case <-ctx.Done():
			return ErrStopped
		}
	}
	for scanner.Scan() {
		switch scanner.Text() {
		case "[ID]":
			id, err := field("ID")
			if err != nil {
				return err
			}
			pdb, model, chain, ok, err := ParseID(id)
			if err != nil {
				return err
			}
			next = nil
			if ok {
				next = &Record{StructureID: pdb, ModelID: model, ChainID: chain}
			}
		case "[PRIMARY]":
			if next != nil {
				s, err := field("primary sequence")
				if err != nil {
					return err
				}
				next.Primary = s
			}
		case "[MASK]":
			if next != nil {
				s, err := field("mask")
				if err != nil {
					return err
				}
				next.Mask = s
			}
		case "":
			if err := emit(); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return emit()
}

//Find returns the record of the given chain, or nil if r has none.
func Find(ctx context.Context, r io.Reader, pdb string, model int, chain string) (*Record, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	results := make(chan *Record)
	errc := make(chan error, 1)
	go func() { errc <- ReadRecords(ctx, r, results) }()
	pdb = strings.ToLower(pdb)
	for rec := range results {
		if rec.StructureID == pdb && rec.ModelID == model && rec.ChainID == chain {
			cancel()
			for range results {
			}
			return rec, nil
		}
	}
	if err := <-errc; err != nil && err != ErrStopped {
		return nil, err
	}
	return nil, nil
}
