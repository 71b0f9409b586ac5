package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sdet-tools/jobhunt/internal/logger"
)

// Daily at 09:00 local time, mirroring a typical morning job-hunt routine.
const defaultCronSpec = "0 9 * * *"

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the pipeline on a cron schedule",
	Run: func(cmd *cobra.Command, _ []string) {
		schedule(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().String("cron", defaultCronSpec, "cron expression for pipeline runs")
	scheduleCmd.Flags().BoolP("yes", "y", true, "do not ask for confirmation before auto-applying")
}

func schedule(cmd *cobra.Command) {
	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	spec, _ := cmd.Flags().GetString("cron")

	c := cron.New()
	_, err = c.AddFunc(spec, func() {
		zlog.Info("scheduled run starting", zap.String("cron", spec))
		run(cmd)
		zlog.Info("scheduled run finished")
	})
	if err != nil {
		zlog.Fatal("parsing cron expression",
			zap.String("cron", spec),
			zap.Error(err),
		)
	}

	zlog.Info("scheduler started", zap.String("cron", spec))
	c.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	zlog.Info("scheduler stopping")
	ctx := c.Stop()
	<-ctx.Done()
}
