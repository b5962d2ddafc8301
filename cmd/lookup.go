package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vzahanych/city-weather/internal/config"
	"github.com/vzahanych/city-weather/internal/service"
	"github.com/vzahanych/city-weather/internal/session"
	"github.com/vzahanych/city-weather/internal/view"
	"go.uber.org/zap"
)

var errSearchFailed = errors.New("search failed")

func lookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "lookup <city>",
		Short:   "Print the current weather for a city",
		Example: "  weather lookup Tokyo\n  weather lookup New York",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()
			svc := service.NewOpenWeatherServiceWithConfig(cfg.Provider, log.Zap(), tele)
			return runLookup(cmd, session.New(svc, log.Zap(), tele), strings.Join(args, " "))
		},
	}
}

func runLookup(cmd *cobra.Command, sess *session.Session, city string) error {
	out := cmd.OutOrStdout()

	sess.OnChange(func(st session.State) {
		if err := view.Render(out, st); err != nil {
			log.Warn("Failed to render session", zap.Error(err))
		}
	})

	if st := sess.Search(cmd.Context(), city); st.Status == session.StatusFailed {
		return fmt.Errorf("%w: %s", errSearchFailed, st.Error.Kind)
	}
	return nil
}
