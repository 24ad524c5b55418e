package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ddrozdov/mkshort/internal/config"
	"github.com/ddrozdov/mkshort/internal/pipeline"
	"github.com/ddrozdov/mkshort/internal/plan"
	"github.com/ddrozdov/mkshort/internal/storage"
)

func run(cmd *cobra.Command, input string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}
	logger := cfg.NewLogger()

	p := plan.Default()
	if planPath, _ := cmd.Flags().GetString("plan"); planPath != "" {
		if p, err = plan.Load(planPath); err != nil {
			return err
		}
	}
	if err := applyOverrides(cmd, &p); err != nil {
		return err
	}

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = pipeline.DefaultOutputName(absIn)
	}

	publishTarget, _ := cmd.Flags().GetString("publish")
	keepWork, _ := cmd.Flags().GetBool("keep-work")

	pcfg := pipeline.Config{
		Input:         absIn,
		Output:        out,
		Plan:          p,
		PublishTarget: publishTarget,

		FFmpegPath:  cfg.FFmpegPath,
		FFprobePath: cfg.FFprobePath,

		WorkDir:  cfg.WorkDir,
		KeepWork: keepWork || cfg.KeepWork,

		S3: storage.S3Options{
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		},

		Logf: func(format string, args ...any) {
			logger.Info(fmt.Sprintf(format, args...))
		},
	}
	if err := pcfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()
	return pipeline.Run(ctx, pcfg)
}

// applyOverrides layers set flags over the plan. Repeatable flags replace the
// plan's list rather than appending to it.
func applyOverrides(cmd *cobra.Command, p *plan.Plan) error {
	f := cmd.Flags()

	if f.Changed("segment") {
		raw, _ := f.GetStringArray("segment")
		p.Segments = nil
		for _, s := range raw {
			span, err := plan.ParseSpan(s)
			if err != nil {
				return err
			}
			p.Segments = append(p.Segments, span)
		}
	}
	if f.Changed("focal") {
		raw, _ := f.GetStringArray("focal")
		p.FocalPoints = nil
		for _, s := range raw {
			fp, err := plan.ParseFocal(s)
			if err != nil {
				return err
			}
			p.FocalPoints = append(p.FocalPoints, fp)
		}
	}
	if f.Changed("speed") {
		p.Speed, _ = f.GetFloat64("speed")
	}
	if f.Changed("aspect") {
		p.AspectRatio, _ = f.GetString("aspect")
	}
	if f.Changed("max") {
		p.MaxDuration, _ = f.GetFloat64("max")
	}
	if f.Changed("resolution") {
		p.Resolution, _ = f.GetString("resolution")
	}
	if f.Changed("image") {
		p.Image, _ = f.GetString("image")
	}
	return nil
}
