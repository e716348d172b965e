package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"einvoice/internal/api"
	"einvoice/internal/logger"
	"einvoice/internal/tui"
)

// documentFormat ties a CLI command to the client's generate/download pair.
type documentFormat struct {
	name     string
	short    string
	generate func(c *api.Client, ctx context.Context, id string) (*api.GenerationResult, error)
	download func(c *api.Client, ctx context.Context, id string) (*api.Download, error)
}

var documentFormats = []documentFormat{
	{
		name:     "xrechnung",
		short:    "XRechnung XML (UBL) for public sector invoicing",
		generate: (*api.Client).GenerateXRechnung,
		download: (*api.Client).DownloadXRechnung,
	},
	{
		name:     "zugferd",
		short:    "ZUGFeRD / Factur-X hybrid PDF",
		generate: (*api.Client).GenerateZUGFeRD,
		download: (*api.Client).DownloadZUGFeRD,
	},
}

func init() {
	for _, f := range documentFormats {
		rootCmd.AddCommand(newDocumentCmd(f))
	}
}

func newDocumentCmd(f documentFormat) *cobra.Command {
	parent := &cobra.Command{
		Use:   f.name,
		Short: "Generate and download " + f.short,
	}

	generate := &cobra.Command{
		Use:   "generate <invoice-id>",
		Short: "Generate the document for an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocumentGenerate(cmd, f, args[0])
		},
	}
	generate.Flags().StringP("output", "o", "", "Also download the document to this path")

	download := &cobra.Command{
		Use:   "download <invoice-id>",
		Short: "Download a generated document",
		Example: fmt.Sprintf(`  einvoice %[1]s download inv_123
  einvoice %[1]s download inv_123 -o ./out/`, f.name),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocumentDownload(cmd, f, args[0])
		},
	}
	download.Flags().StringP("output", "o", "", "Output file or directory (default: server file name in the current directory)")

	parent.AddCommand(generate, download)
	return parent
}

func runDocumentGenerate(cmd *cobra.Command, f documentFormat, id string) error {
	log := logger.WithInvoice(logger.WithComponent(f.name), id)

	client, err := newClient(cmd, true)
	if err != nil {
		return handleAPIError(err, "generating "+f.name, log)
	}
	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	result, err := f.generate(client, ctx, id)
	if err != nil {
		return handleAPIError(err, "generating "+f.name, log)
	}
	log.Info().Str("status", string(result.Status)).Msg("Document generated")

	if err := printResult(cmd, result, func() string {
		s := fmt.Sprintf("Generated %s for invoice %s.\n", f.name, id)
		if result.Message != "" {
			s += result.Message + "\n"
		}
		if result.Validation != nil {
			s += tui.RenderValidation(result.Validation)
		}
		return s
	}); err != nil {
		return err
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		return runDocumentDownload(cmd, f, id)
	}
	return nil
}

func runDocumentDownload(cmd *cobra.Command, f documentFormat, id string) error {
	log := logger.WithInvoice(logger.WithComponent(f.name), id)

	client, err := newClient(cmd, true)
	if err != nil {
		return handleAPIError(err, "downloading "+f.name, log)
	}
	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	doc, err := f.download(client, ctx, id)
	if err != nil {
		return handleAPIError(err, "downloading "+f.name, log)
	}

	output, _ := cmd.Flags().GetString("output")
	path := downloadPath(output, doc.Filename)
	if err := writeOutputFile(path, doc.Data); err != nil {
		return err
	}

	log.Info().Str("path", path).Int("bytes", len(doc.Data)).Msg("Document downloaded")
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s (%d bytes)\n", path, len(doc.Data))
	return nil
}

// downloadPath resolves -o: empty uses the server name, a directory receives it.
func downloadPath(output, serverName string) string {
	name := filepath.Base(serverName)
	if output == "" {
		return name
	}
	if isDir(output) {
		return filepath.Join(output, name)
	}
	return output
}
