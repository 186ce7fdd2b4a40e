package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nodeadmin/dlreasoner/fixture"
	"github.com/nodeadmin/dlreasoner/ontology"
	"github.com/nodeadmin/dlreasoner/reasoner"
)

// detectFormat infers obo/owl from the file extension.
func detectFormat(path, explicit string) string {
	if explicit != "" && explicit != "auto" {
		return explicit
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obo":
		return "obo"
	case ".owl", ".xml", ".rdf":
		return "owl"
	default:
		return ""
	}
}

// loadOntology opens and parses path per format, returning a ready
// *ontology.Ontology via the fixture package's stream conversion.
func loadOntology(path, format string) (*ontology.Ontology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	fmtName := detectFormat(path, format)
	if fmtName == "" {
		return nil, fmt.Errorf("cannot detect format for %q; pass --format obo|owl", path)
	}

	o := ontology.New()
	var stream *fixture.Stream
	switch fmtName {
	case "obo":
		stream, err = fixture.OBOLoader(o, f)
	case "owl":
		stream, err = fixture.OWLLoader(o, f)
	default:
		return nil, fmt.Errorf("unknown format %q", fmtName)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := o.LoadFrom(stream); err != nil {
		return nil, fmt.Errorf("loading axioms: %w", err)
	}
	return o, nil
}

// buildReasoner constructs a reasoner.Reasoner over path, applying the
// --config file if given and overriding DebugTrace from --debug-trace.
func buildReasoner(cmd *cobra.Command, path string) (*reasoner.Reasoner, error) {
	_, r, err := loadOntologyAndReasoner(cmd, path)
	return r, err
}

// loadOntologyAndReasoner loads path once and builds the Reasoner from
// that same *ontology.Ontology, so any ExprID a caller resolves against
// the returned ontology (e.g. via classExprByName) indexes the same
// ExprTable the Reasoner queries against. Loading twice into separate
// Ontology instances would hand the Reasoner an ExprID from a different
// table's interning order.
func loadOntologyAndReasoner(cmd *cobra.Command, path string) (*ontology.Ontology, *reasoner.Reasoner, error) {
	format, _ := cmd.Flags().GetString("format")
	cfgPath, _ := cmd.Flags().GetString("config")
	debugTrace, _ := cmd.Flags().GetBool("debug-trace")

	o, err := loadOntology(path, format)
	if err != nil {
		return nil, nil, err
	}

	cfg := reasoner.DefaultConfig()
	if cfgPath != "" {
		cfg, err = reasoner.LoadConfig(cfgPath)
		if err != nil {
			return nil, nil, fmt.Errorf("loading config %s: %w", cfgPath, err)
		}
	}
	if debugTrace {
		cfg.DebugTrace = true
	}

	r, err := reasoner.New(o, cfg)
	if err != nil {
		return nil, nil, err
	}
	return o, r, nil
}

func classExprByName(o *ontology.Ontology, name string) ontology.ExprID {
	return o.Exprs.Class(o.Interner.Intern(name))
}
