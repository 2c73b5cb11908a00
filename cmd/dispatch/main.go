package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var rootCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "multi-stop delivery route distances and durations",
	Long: `
dispatch computes, for every delivery vehicle, the driving distance and time of
each leg of its route from a shared origin, using Kakao geocoding and directions.

Configuration is read from the environment (or a .env file); see PROVIDER,
KAKAO_REST_API_KEY, DATABASE_URL and REDIS_URL.
`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
