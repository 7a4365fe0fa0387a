package cli

import (
	"context"
	"log/slog"

	"github.com/fiware/odataserver/pkg/cli/config"
	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"
)

// cmdValidate checks a model definition without connecting to MongoDB
func cmdValidate() *cli.Command {
	var modelCfg config.Model

	return &cli.Command{
		Name:  "validate",
		Usage: "Validate an entity data model definition",
		Flags: modelCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			edmx, err := modelCfg.Load()
			if err != nil {
				return err
			}

			sets := edmx.EntitySets()
			for _, set := range sets {
				ctxlog.From(ctx).Debug("entity set",
					slog.String("name", set.Name),
					slog.String("entity_type", set.Type().QualifiedName()),
					slog.String("collection", set.MongoCollection()),
					slog.String("prefix", set.Prefix()),
				)
			}
			ctxlog.From(ctx).Info("model definition is valid",
				slog.String("model", modelCfg.Path),
				slog.Int("entity_sets", len(sets)),
			)
			return nil
		},
	}
}
