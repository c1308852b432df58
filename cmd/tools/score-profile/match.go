package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/engine/matching"
	"readiness-workers/internal/models"
	mp "readiness-workers/internal/workers/readiness/match-partners"

	"github.com/spf13/cobra"
)

// filePartnerStore serves a partner catalog exported as a JSON array.
type filePartnerStore struct {
	partners []models.PartnerRecord
}

func loadPartnerFile(path string) (*filePartnerStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read partner catalog: %w", err)
	}
	var partners []models.PartnerRecord
	if err := json.Unmarshal(data, &partners); err != nil {
		return nil, fmt.Errorf("failed to parse partner catalog: %w", err)
	}
	return &filePartnerStore{partners: partners}, nil
}

func (s *filePartnerStore) ListPartners(_ context.Context, categories []string) ([]models.PartnerRecord, error) {
	if len(categories) == 0 {
		return s.partners, nil
	}
	wanted := make(map[string]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}
	out := make([]models.PartnerRecord, 0, len(s.partners))
	for _, p := range s.partners {
		if c, ok := matching.NormalizeCategory(p.Category); ok && wanted[c] {
			out = append(out, p)
		}
	}
	return out, nil
}

func newMatchCmd() *cobra.Command {
	var (
		inputPath    string
		partnersPath string
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match partners for a scored profile",
		Long:  "Reads {businessProfile, scoringResult, categories} from --in, ranks the partners in --partners and prints the match-partners output.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			vars, err := readVariables(cmd.InOrStdin(), inputPath)
			if err != nil {
				return err
			}
			store, err := loadPartnerFile(partnersPath)
			if err != nil {
				return err
			}

			cfg := mp.LoadConfig()
			cfg.PartnerSource = partnersPath
			handler := mp.NewHandler(cfg, mp.Dependencies{Partners: store}, logger.NewNoOpLogger())
			output, err := handler.Execute(cmd.Context(), vars)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), output)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "in", "i", "-", "Path to the job variables JSON (- for stdin)")
	cmd.Flags().StringVarP(&partnersPath, "partners", "p", "", "Path to the partner catalog JSON array")
	_ = cmd.MarkFlagRequired("partners")
	return cmd
}
