package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"einvoice/internal/logger"
	"einvoice/internal/ocr"
	"einvoice/internal/tui"
	"einvoice/pkg/models"
)

var invoiceCmd = &cobra.Command{
	Use:     "invoice",
	Aliases: []string{"invoices", "inv"},
	Short:   "List, create, update and delete invoices",
}

var invoiceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	Example: `  einvoice invoice list
  einvoice invoice list --status invalid --payment overdue
  einvoice invoice list --search "Muster GmbH" --page 2 --json`,
	Args: cobra.NoArgs,
	RunE: runInvoiceList,
}

var invoiceGetCmd = &cobra.Command{
	Use:   "get <invoice-id>",
	Short: "Show a single invoice",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoiceGet,
}

var invoiceCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an invoice",
	Long: `Create an invoice from flags or from a JSON file (--file). Flags override
values from the file. A missing gross amount is calculated as net + VAT, and
net + VAT must match gross within 0.02.`,
	Example: `  einvoice invoice create --number RE-2024-001 --seller "Muster GmbH" \
    --buyer "Beispiel AG" --date 2024-05-02 --net 1000 --tax 190
  einvoice invoice create --file invoice.json`,
	Args: cobra.NoArgs,
	RunE: runInvoiceCreate,
}

var invoiceUpdateCmd = &cobra.Command{
	Use:   "update <invoice-id>",
	Short: "Update an invoice",
	Long: `Update an invoice. Only the flags given are changed; everything else keeps
its current value. The backend applies the last write.`,
	Args: cobra.ExactArgs(1),
	RunE: runInvoiceUpdate,
}

var invoiceDeleteCmd = &cobra.Command{
	Use:   "delete <invoice-id>...",
	Short: "Delete one or more invoices",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInvoiceDelete,
}

var invoiceStatusCmd = &cobra.Command{
	Use:   "status <invoice-id> <unpaid|paid|partial|overdue|cancelled>",
	Short: "Set the payment status",
	Example: `  einvoice invoice status inv_123 paid --paid-at 2024-06-01
  einvoice invoice status inv_123 partial --paid-amount 500`,
	Args: cobra.ExactArgs(2),
	RunE: runInvoiceStatus,
}

var invoiceImportCmd = &cobra.Command{
	Use:   "import <xml-file>",
	Short: "Import an XRechnung or ZUGFeRD XML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoiceImport,
}

func init() {
	rootCmd.AddCommand(invoiceCmd)
	invoiceCmd.AddCommand(invoiceListCmd, invoiceGetCmd, invoiceCreateCmd, invoiceUpdateCmd,
		invoiceDeleteCmd, invoiceStatusCmd, invoiceImportCmd)

	lf := invoiceListCmd.Flags()
	lf.Int("page", 1, "Page number")
	lf.Int("page-size", 20, "Invoices per page")
	lf.String("status", "", "Filter by validation status")
	lf.String("payment", "", "Filter by payment status")
	lf.String("search", "", "Search number, seller or buyer")
	lf.String("sort", "", "Sort field, prefix with - for descending (e.g. -invoice_date)")

	invoiceCreateCmd.Flags().StringP("file", "f", "", "JSON file with the invoice fields")
	addInvoiceFlags(invoiceCreateCmd.Flags())
	addInvoiceFlags(invoiceUpdateCmd.Flags())

	invoiceStatusCmd.Flags().String("paid-amount", "", "Amount received (for partial payments)")
	invoiceStatusCmd.Flags().String("paid-at", "", "Payment date (YYYY-MM-DD)")
}

func addInvoiceFlags(f *pflag.FlagSet) {
	f.String("number", "", "Invoice number (BT-1)")
	f.String("date", "", "Issue date, YYYY-MM-DD or DD.MM.YYYY (BT-2)")
	f.String("due-date", "", "Due date (BT-9)")
	f.String("seller", "", "Seller name (BT-27)")
	f.String("seller-vat", "", "Seller VAT ID (BT-31)")
	f.String("seller-address", "", "Seller address")
	f.String("buyer", "", "Buyer name (BT-44)")
	f.String("buyer-vat", "", "Buyer VAT ID (BT-48)")
	f.String("buyer-address", "", "Buyer address")
	f.String("buyer-ref", "", "Buyer reference / Leitweg-ID (BT-10)")
	f.String("net", "", "Net total (BT-109)")
	f.String("tax", "", "VAT total (BT-110)")
	f.String("gross", "", "Gross total (BT-112)")
	f.String("tax-rate", "", "VAT rate in percent (BT-119)")
	f.String("currency", "", "Currency code (BT-5, default EUR)")
	f.String("iban", "", "Payee IBAN (BT-84)")
	f.String("bic", "", "Payee BIC (BT-86)")
	f.String("terms", "", "Payment terms (BT-20)")
}

// applyInvoiceFlags copies every changed invoice flag onto in.
func applyInvoiceFlags(f *pflag.FlagSet, in *models.InvoiceInput) error {
	strs := map[string]*string{
		"number":         &in.InvoiceNumber,
		"seller":         &in.SellerName,
		"seller-vat":     &in.SellerVATID,
		"seller-address": &in.SellerAddress,
		"buyer":          &in.BuyerName,
		"buyer-vat":      &in.BuyerVATID,
		"buyer-address":  &in.BuyerAddress,
		"buyer-ref":      &in.BuyerRef,
		"currency":       &in.Currency,
		"iban":           &in.IBAN,
		"bic":            &in.BIC,
		"terms":          &in.PaymentTerms,
	}
	for name, dst := range strs {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}

	amounts := map[string]*decimal.Decimal{
		"net":   &in.NetAmount,
		"tax":   &in.TaxAmount,
		"gross": &in.GrossAmount,
	}
	for name, dst := range amounts {
		if !f.Changed(name) {
			continue
		}
		v, _ := f.GetString(name)
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("invalid --%s %q: %w", name, v, err)
		}
		*dst = d
	}
	if f.Changed("tax-rate") {
		v, _ := f.GetString("tax-rate")
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("invalid --tax-rate %q: %w", v, err)
		}
		in.TaxRate = &d
	}

	dates := map[string]**models.Date{
		"date":     &in.InvoiceDate,
		"due-date": &in.DueDate,
	}
	for name, dst := range dates {
		if !f.Changed(name) {
			continue
		}
		v, _ := f.GetString(name)
		d, err := models.ParseDate(v)
		if err != nil {
			return fmt.Errorf("invalid --%s: %w", name, err)
		}
		*dst = d
	}
	return nil
}

// inputFromInvoice turns a stored invoice into an update payload.
func inputFromInvoice(inv *models.Invoice) models.InvoiceInput {
	return models.InvoiceInput{
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceDate:   inv.InvoiceDate,
		DueDate:       inv.DueDate,
		SellerName:    inv.SellerName,
		SellerVATID:   inv.SellerVATID,
		SellerAddress: inv.SellerAddress,
		BuyerName:     inv.BuyerName,
		BuyerVATID:    inv.BuyerVATID,
		BuyerAddress:  inv.BuyerAddress,
		BuyerRef:      inv.BuyerRef,
		NetAmount:     inv.NetAmount,
		TaxAmount:     inv.TaxAmount,
		GrossAmount:   inv.GrossAmount,
		TaxRate:       inv.TaxRate,
		Currency:      inv.Currency,
		IBAN:          inv.IBAN,
		BIC:           inv.BIC,
		PaymentTerms:  inv.PaymentTerms,
		LineItems:     inv.LineItems,
	}
}

func runInvoiceList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice")

	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	status, _ := cmd.Flags().GetString("status")
	payment, _ := cmd.Flags().GetString("payment")
	search, _ := cmd.Flags().GetString("search")
	sort, _ := cmd.Flags().GetString("sort")

	filter := models.InvoiceFilter{
		Page:             page,
		PageSize:         pageSize,
		ValidationStatus: models.ValidationStatus(status),
		PaymentStatus:    models.PaymentStatus(payment),
		Search:           search,
		Sort:             sort,
	}

	client, err := newClient(cmd, true)
	if err != nil {
		return handleAPIError(err, "listing invoices", log)
	}
	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	result, err := client.ListInvoices(ctx, filter)
	if err != nil {
		return handleAPIError(err, "listing invoices", log)
	}

	log.Debug().Int("items", len(result.Items)).Int("total", result.Total).Msg("Listed invoices")

	return printResult(cmd, result, func() string { return tui.RenderInvoiceTable(result) })
}

func runInvoiceGet(cmd *cobra.Command, args []string) error {
	log := logger.WithInvoice(logger.WithComponent("invoice"), args[0])

	client, err := newClient(cmd, true)
	if err != nil {
		return handleAPIError(err, "loading invoice", log)
	}
	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	inv, err := client.GetInvoice(ctx, args[0])
	if err != nil {
		return handleAPIError(err, "loading invoice", log)
	}
	return printResult(cmd, inv, func() string { return tui.RenderInvoice(inv) })
}

func runInvoiceCreate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice")

	var in models.InvoiceInput
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read invoice file: %w", err)
		}
		if err := json.Unmarshal(data, &in); err != nil {
			return fmt.Errorf("failed to parse invoice file %s: %w", path, err)
		}
	}
	if err := applyInvoiceFlags(cmd.Flags(), &in); err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return fmt.Errorf("invalid invoice: %w", err)
	}

	client, err := newClient(cmd, true)
	if err != nil {
		return handleAPIError(err, "creating invoice", log)
	}
	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	inv, err := client.CreateInvoice(ctx, in)
	if err != nil {
		return handleAPIError(err, "creating invoice", log)
	}

	log.Info().Str("invoice_id", inv.ID).Str("invoice_number", inv.InvoiceNumber).Msg("Invoice created")

	return printResult(cmd, inv, func() string { return tui.RenderInvoice(inv) })
}

func runInvoiceUpdate(cmd *cobra.Command, args []string) error {
	id := args[0]
	log := logger.WithInvoice(logger.WithComponent("invoice"), id)

	client, err := newClient(cmd, true)
	if err != nil {
		return handleAPIError(err, "updating invoice", log)
	}
	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	current, err := client.GetInvoice(ctx, id)
	if err != nil {
		return handleAPIError(err, "loading invoice", log)
	}

	in := inputFromInvoice(current)
	if err := applyInvoiceFlags(cmd.Flags(), &in); err != nil {
		return err
	}
	// keep gross in step when only net or tax changed
	if (cmd.Flags().Changed("net") || cmd.Flags().Changed("tax")) && !cmd.Flags().Changed("gross") {
		in.GrossAmount = decimal.Zero
	}
	if err := in.Validate(); err != nil {
		return fmt.Errorf("invalid invoice: %w", err)
	}

	inv, err := client.UpdateInvoice(ctx, id, in)
	if err != nil {
		return handleAPIError(err, "updating invoice", log)
	}
	log.Info().Msg("Invoice updated")

	return printResult(cmd, inv, func() string { return tui.RenderInvoice(inv) })
}

func runInvoiceDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice")

	client, err := newClient(cmd, true)
	if err != nil {
		return handleAPIError(err, "deleting invoice", log)
	}
	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	if len(args) == 1 {
		if err := client.DeleteInvoice(ctx, args[0]); err != nil {
			return handleAPIError(err, "deleting invoice", log)
		}
		return printDone(cmd, "Deleted invoice %s.", args[0])
	}

	result, err := client.BulkDeleteInvoices(ctx, args)
	if err != nil {
		return handleAPIError(err, "deleting invoices", log)
	}
	return printResult(cmd, result, func() string {
		s := fmt.Sprintf("Deleted %d of %d invoices.\n", result.Deleted, len(args))
		for _, id := range result.Failed {
			s += fmt.Sprintf("  not deleted: %s\n", id)
		}
		return s
	})
}

func runInvoiceStatus(cmd *cobra.Command, args []string) error {
	id := args[0]
	log := logger.WithInvoice(logger.WithComponent("invoice"), id)

	update := models.PaymentStatusUpdate{PaymentStatus: models.PaymentStatus(args[1])}
	if !update.PaymentStatus.Known() {
		return fmt.Errorf("unknown payment status %q (use one of %v)", args[1], models.PaymentStatuses())
	}
	if v, _ := cmd.Flags().GetString("paid-amount"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("invalid --paid-amount %q: %w", v, err)
		}
		update.PaidAmount = &d
	}
	if v, _ := cmd.Flags().GetString("paid-at"); v != "" {
		d, err := models.ParseDate(v)
		if err != nil {
			return fmt.Errorf("invalid --paid-at: %w", err)
		}
		update.PaidAt = d
	}

	client, err := newClient(cmd, true)
	if err != nil {
		return handleAPIError(err, "updating payment status", log)
	}
	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	inv, err := client.UpdatePaymentStatus(ctx, id, update)
	if err != nil {
		return handleAPIError(err, "updating payment status", log)
	}
	return printResult(cmd, inv, func() string {
		return fmt.Sprintf("Invoice %s is now %s.\n", orID(inv), tui.RenderBadge(inv.PaymentStatus.Badge()))
	})
}

func runInvoiceImport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice")

	file, err := ocr.CheckXML(args[0])
	if err != nil {
		return handleAPIError(err, "importing XML", log)
	}

	client, err := newClient(cmd, true)
	if err != nil {
		return handleAPIError(err, "importing XML", log)
	}
	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	inv, err := client.ImportXML(ctx, file)
	if err != nil {
		return handleAPIError(err, "importing XML", log)
	}
	log.Info().Str("invoice_id", inv.ID).Str("file", file.Name).Msg("XML imported")

	return printResult(cmd, inv, func() string { return tui.RenderInvoice(inv) })
}

func orID(inv *models.Invoice) string {
	if inv.InvoiceNumber != "" {
		return inv.InvoiceNumber
	}
	return inv.ID
}
