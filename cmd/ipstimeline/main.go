package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"ips-timeline-service/internal/app/config"
	"ips-timeline-service/internal/app/services/core/reference_ranges"
	"ips-timeline-service/internal/app/services/core/timeline"
	"ips-timeline-service/internal/app/services/fhir_spark/clinical_resources"
	"ips-timeline-service/internal/app/services/fhir_spark/compositions"
	"ips-timeline-service/internal/app/services/fhir_spark/fhirhttp"
	"ips-timeline-service/internal/app/services/shared/session"
	"ips-timeline-service/internal/app/services/shared/timelinequeue"
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/dto/requests"
	"ips-timeline-service/internal/pkg/exceptions"
	"ips-timeline-service/internal/pkg/utils"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "ipstimeline",
		Short:         "Build and classify IPS clinical timelines",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	newLogger := func() *zap.Logger {
		if !verbose {
			return zap.NewNop()
		}
		logger, err := zap.NewDevelopment()
		if err != nil {
			return zap.NewNop()
		}
		return logger
	}

	rootCmd.AddCommand(timelineCmd(newLogger))
	rootCmd.AddCommand(classifyCmd(newLogger))
	rootCmd.AddCommand(rangesCmd(newLogger))
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describeError(err))
		os.Exit(1)
	}
}

func timelineCmd(newLogger func() *zap.Logger) *cobra.Command {
	query := new(requests.TimelineQuery)
	var titles string

	cmd := &cobra.Command{
		Use:   "timeline <patient-id>",
		Short: "Fetch a patient's IPS composition and print its timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer log.Sync()

			query.PatientID = args[0]
			query.Sort = strings.ToLower(query.Sort)
			for _, title := range strings.Split(titles, ",") {
				if title = strings.TrimSpace(title); title != "" {
					query.Titles = append(query.Titles, title)
				}
			}
			if err := utils.ValidateStruct(query); err != nil {
				return exceptions.ErrInputValidation(err)
			}

			internalConfig := config.NewInternalConfig()
			requester := fhirhttp.NewRequester(fhirhttp.Config{
				BaseURL:              internalConfig.FHIR.BaseUrl,
				AuthToken:            internalConfig.FHIR.AuthToken,
				Timeout:              time.Duration(internalConfig.FHIR.RequestTimeoutInSecond) * time.Second,
				MaxRequestsPerSecond: internalConfig.FHIR.MaxRequestsPerSecond,
			}, log)
			walker := timeline.NewWalker(
				compositions.NewCompositionFhirClient(requester, log),
				clinical_resources.NewClinicalResourceFhirClient(requester, log),
				log,
			)
			timelineUsecase := timeline.NewTimelineUsecase(walker, session.NewMemoryStore(), nil, timelinequeue.NoopPublisher{}, internalConfig, log)

			requestID := uuid.NewString()
			ctx := context.WithValue(cmd.Context(), constvars.CONTEXT_REQUEST_ID_KEY, requestID)

			return utils.LogOperation(log, "ipstimeline.timeline", requestID, func() error {
				result, err := timelineUsecase.GetFilteredTimeline(ctx, requestID, query)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}

	cmd.Flags().StringVar(&query.HistoryVersion, "history-version", "", "composition history version to read")
	cmd.Flags().StringVar(&query.From, "from", "", "earliest entry date (inclusive)")
	cmd.Flags().StringVar(&query.To, "to", "", "latest entry date (inclusive)")
	cmd.Flags().StringVar(&titles, "title", "", "comma separated entry titles to keep")
	cmd.Flags().StringVar(&query.Sort, "sort", "", "document or date")
	return cmd
}

func classifyCmd(newLogger func() *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <analyte> <value>",
		Short: "Classify a laboratory value against its reference bands",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer log.Sync()

			request := &requests.ClassifyValue{Value: json.RawMessage(strconv.Quote(args[1]))}
			classification, err := reference_ranges.NewReferenceRangeUsecase(log).Classify(cmd.Context(), args[0], request)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), classification)
		},
	}
}

func rangesCmd(newLogger func() *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "ranges [analyte]",
		Short: "Print the configured reference bands",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer log.Sync()

			referenceRangeUsecase := reference_ranges.NewReferenceRangeUsecase(log)
			if len(args) == 1 {
				referenceRange, err := referenceRangeUsecase.FindByAnalyte(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), referenceRange)
			}

			referenceRanges, err := referenceRangeUsecase.FindAll(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), referenceRanges)
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func describeError(err error) string {
	var customErr *exceptions.CustomError
	if !errors.As(err, &customErr) {
		return err.Error()
	}
	if customErr.DevMessage == "" || customErr.DevMessage == customErr.ClientMessage {
		return customErr.ClientMessage
	}
	return fmt.Sprintf("%s (%s)", customErr.ClientMessage, customErr.DevMessage)
}
