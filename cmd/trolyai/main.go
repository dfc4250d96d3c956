package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nhatminh/trolyai/internal/googleauth"
	"github.com/nhatminh/trolyai/internal/profile"
	"github.com/nhatminh/trolyai/plugin/ai"
	"github.com/nhatminh/trolyai/plugin/ai/agent"
	"github.com/nhatminh/trolyai/plugin/ai/agent/tools"
	"github.com/nhatminh/trolyai/plugin/ai/vntime"
	"github.com/nhatminh/trolyai/server"
	"github.com/nhatminh/trolyai/server/service/calendar"
	"github.com/nhatminh/trolyai/server/service/weather"
	"github.com/nhatminh/trolyai/store"
	"github.com/nhatminh/trolyai/store/db"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "trolyai",
	Short: "Trợ lý AI cho thời tiết, ngày giờ và Google Calendar",
	RunE: func(_ *cobra.Command, _ []string) error {
		instanceProfile := &profile.Profile{
			Mode:    viper.GetString("mode"),
			Addr:    viper.GetString("addr"),
			Port:    viper.GetInt("port"),
			Data:    viper.GetString("data"),
			Driver:  viper.GetString("driver"),
			DSN:     viper.GetString("dsn"),
			Version: version,
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			return fmt.Errorf("invalid profile: %w", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		srv, err := buildServer(ctx, instanceProfile)
		if err != nil {
			return err
		}

		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
		go func() {
			sig := <-sigc
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		}()

		return srv.Start(ctx)
	},
}

// buildServer wires the full stack: store, LLM, Google Calendar, tools,
// agent, HTTP server.
func buildServer(ctx context.Context, instanceProfile *profile.Profile) (*server.Server, error) {
	dbDriver, err := db.NewDBDriver(instanceProfile)
	if err != nil {
		return nil, fmt.Errorf("failed to create db driver: %w", err)
	}
	if err := dbDriver.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	storeInstance := store.New(dbDriver)

	llmCfg := &ai.LLMConfig{
		Provider: instanceProfile.LLMProvider,
		APIKey:   instanceProfile.LLMAPIKey,
		BaseURL:  instanceProfile.LLMBaseURL,
		Model:    instanceProfile.LLMModel,
	}
	llmCfg.ApplyDefaults()
	llmService, err := ai.NewLLMService(llmCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM service: %w", err)
	}

	resolver := vntime.NewResolver()
	authSource := googleauth.NewClientSource(instanceProfile.GoogleCredentials, instanceProfile.GoogleToken)
	calendarService := calendar.NewService(calendar.NewGoogleProvider(authSource, resolver), resolver)
	weatherService := weather.NewService()

	assistant, err := agent.New(llmService, agent.SystemPrompt,
		tools.NewWeatherTool(weatherService),
		tools.NewCurrentDateTimeTool(resolver),
		tools.NewTodayInfoTool(resolver),
		tools.NewListUpcomingTool(calendarService),
		tools.NewSearchEventsTool(calendarService),
		tools.NewEventsByDateTool(calendarService),
		tools.NewTodayEventsTool(calendarService),
		tools.NewTomorrowEventsTool(calendarService),
		tools.NewCreateEventTool(calendarService),
		tools.NewDeleteEventTool(calendarService),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	return server.NewServer(instanceProfile, storeInstance, assistant), nil
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize Google Calendar access and cache the OAuth token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		instanceProfile := &profile.Profile{
			Mode: viper.GetString("mode"),
			Data: viper.GetString("data"),
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			return fmt.Errorf("invalid profile: %w", err)
		}

		source := googleauth.NewClientSource(instanceProfile.GoogleCredentials, instanceProfile.GoogleToken)
		url, err := source.AuthURL()
		if err != nil {
			return err
		}

		fmt.Println("Mở liên kết sau trong trình duyệt và dán mã xác thực vào đây:")
		fmt.Println(url)
		fmt.Print("Mã xác thực: ")

		var code string
		if _, err := fmt.Fscan(cmd.InOrStdin(), &code); err != nil {
			return fmt.Errorf("failed to read authorization code: %w", err)
		}
		if err := source.Exchange(cmd.Context(), code); err != nil {
			return err
		}

		fmt.Println("Đã lưu token. Google Calendar sẵn sàng.")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver")
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
	viper.SetDefault("mode", "dev")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("port", 8081)
	viper.SetEnvPrefix("trolyai")
	viper.AutomaticEnv()

	rootCmd.AddCommand(authCmd)
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := rootCmd.Execute(); err != nil {
		slog.Error("failed to run", "error", err)
		os.Exit(1)
	}
}
