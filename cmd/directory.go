package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"einvoice/internal/tui"
	"einvoice/pkg/models"
)

var supplierCmd = &cobra.Command{
	Use:     "supplier",
	Aliases: []string{"suppliers"},
	Short:   "Manage suppliers",
}

var contactCmd = &cobra.Command{
	Use:     "contact",
	Aliases: []string{"contacts"},
	Short:   "Manage contacts",
}

var recurringCmd = &cobra.Command{
	Use:   "recurring",
	Short: "Manage recurring invoices",
}

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"templates"},
	Short:   "Manage invoice templates",
}

func init() {
	rootCmd.AddCommand(supplierCmd, contactCmd, recurringCmd, templateCmd)

	supplierList := &cobra.Command{Use: "list", Short: "List suppliers", Args: cobra.NoArgs, RunE: runSupplierList}
	supplierList.Flags().String("search", "", "Filter by name or VAT ID")
	supplierCreate := &cobra.Command{Use: "create <name>", Short: "Create a supplier", Args: cobra.ExactArgs(1), RunE: runSupplierCreate}
	supplierCreate.Flags().String("vat-id", "", "VAT ID")
	supplierCreate.Flags().String("address", "", "Postal address")
	supplierCreate.Flags().String("email", "", "Email")
	supplierCreate.Flags().String("iban", "", "IBAN")
	supplierCmd.AddCommand(supplierList, supplierCreate,
		deleteCommand("supplier", func(c *cobra.Command, id string) error {
			return withClient(c, "deleting supplier", func(cl clientCtx) error { return cl.client.DeleteSupplier(cl.ctx, id) })
		}))

	contactList := &cobra.Command{Use: "list", Short: "List contacts", Args: cobra.NoArgs, RunE: runContactList}
	contactCreate := &cobra.Command{Use: "create <name>", Short: "Create a contact", Args: cobra.ExactArgs(1), RunE: runContactCreate}
	contactCreate.Flags().String("email", "", "Email")
	contactCreate.Flags().String("phone", "", "Phone")
	contactCreate.Flags().String("company", "", "Company")
	contactCreate.Flags().String("type", "customer", "customer or supplier")
	contactCreate.Flags().String("notes", "", "Notes")
	contactCmd.AddCommand(contactList, contactCreate,
		deleteCommand("contact", func(c *cobra.Command, id string) error {
			return withClient(c, "deleting contact", func(cl clientCtx) error { return cl.client.DeleteContact(cl.ctx, id) })
		}))

	recurringList := &cobra.Command{Use: "list", Short: "List recurring invoices", Args: cobra.NoArgs, RunE: runRecurringList}
	recurringCreate := &cobra.Command{
		Use:     "create <name>",
		Short:   "Create a recurring invoice",
		Example: `  einvoice recurring create "Wartungsvertrag" --buyer "Beispiel AG" --net 250 --frequency monthly --start 2024-07-01`,
		Args:    cobra.ExactArgs(1),
		RunE:    runRecurringCreate,
	}
	rf := recurringCreate.Flags()
	rf.String("buyer", "", "Buyer name")
	rf.String("net", "", "Net amount")
	rf.String("tax-rate", "19", "VAT rate in percent")
	rf.String("frequency", "monthly", "monthly, quarterly or yearly")
	rf.String("start", "", "First invoice date")
	rf.String("currency", "", "Currency code (default EUR)")
	rf.String("description", "", "Line description")
	recurringToggle := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Pause or resume a recurring invoice",
		Args:  cobra.ExactArgs(1),
		RunE:  runRecurringToggle,
	}
	recurringCmd.AddCommand(recurringList, recurringCreate, recurringToggle,
		deleteCommand("recurring invoice", func(c *cobra.Command, id string) error {
			return withClient(c, "deleting recurring invoice", func(cl clientCtx) error { return cl.client.DeleteRecurring(cl.ctx, id) })
		}))

	templateList := &cobra.Command{Use: "list", Short: "List invoice templates", Args: cobra.NoArgs, RunE: runTemplateList}
	templateCreate := &cobra.Command{Use: "create <name>", Short: "Create an invoice template", Args: cobra.ExactArgs(1), RunE: runTemplateCreate}
	templateCreate.Flags().String("description", "", "Description")
	templateCreate.Flags().Bool("default", false, "Use as the default template")
	templateCmd.AddCommand(templateList, templateCreate,
		deleteCommand("template", func(c *cobra.Command, id string) error {
			return withClient(c, "deleting template", func(cl clientCtx) error { return cl.client.DeleteTemplate(cl.ctx, id) })
		}))
}

func runSupplierList(cmd *cobra.Command, args []string) error {
	search, _ := cmd.Flags().GetString("search")
	return withClient(cmd, "listing suppliers", func(cl clientCtx) error {
		suppliers, err := cl.client.ListSuppliers(cl.ctx, search)
		if err != nil {
			return err
		}
		return printResult(cmd, suppliers, func() string {
			rows := make([][]string, 0, len(suppliers))
			for _, s := range suppliers {
				rows = append(rows, []string{s.ID, s.Name, s.VATID, fmt.Sprint(s.InvoiceCount), s.TotalAmount.StringFixed(2)})
			}
			return tui.RenderTable([]string{"ID", "NAME", "VAT ID", "INVOICES", "TOTAL"}, rows, "No suppliers found.")
		})
	})
}

func runSupplierCreate(cmd *cobra.Command, args []string) error {
	in := models.SupplierInput{Name: args[0]}
	in.VATID, _ = cmd.Flags().GetString("vat-id")
	in.Address, _ = cmd.Flags().GetString("address")
	in.Email, _ = cmd.Flags().GetString("email")
	in.IBAN, _ = cmd.Flags().GetString("iban")

	return withClient(cmd, "creating supplier", func(cl clientCtx) error {
		s, err := cl.client.CreateSupplier(cl.ctx, in)
		if err != nil {
			return err
		}
		return printResult(cmd, s, func() string { return fmt.Sprintf("Created supplier %s (%s).\n", s.Name, s.ID) })
	})
}

func runContactList(cmd *cobra.Command, args []string) error {
	return withClient(cmd, "listing contacts", func(cl clientCtx) error {
		contacts, err := cl.client.ListContacts(cl.ctx)
		if err != nil {
			return err
		}
		return printResult(cmd, contacts, func() string {
			rows := make([][]string, 0, len(contacts))
			for _, c := range contacts {
				rows = append(rows, []string{c.ID, c.Name, c.Company, c.Email, c.Type})
			}
			return tui.RenderTable([]string{"ID", "NAME", "COMPANY", "EMAIL", "TYPE"}, rows, "No contacts found.")
		})
	})
}

func runContactCreate(cmd *cobra.Command, args []string) error {
	in := models.ContactInput{Name: args[0]}
	in.Email, _ = cmd.Flags().GetString("email")
	in.Phone, _ = cmd.Flags().GetString("phone")
	in.Company, _ = cmd.Flags().GetString("company")
	in.Type, _ = cmd.Flags().GetString("type")
	in.Notes, _ = cmd.Flags().GetString("notes")

	return withClient(cmd, "creating contact", func(cl clientCtx) error {
		c, err := cl.client.CreateContact(cl.ctx, in)
		if err != nil {
			return err
		}
		return printResult(cmd, c, func() string { return fmt.Sprintf("Created contact %s (%s).\n", c.Name, c.ID) })
	})
}

func runRecurringList(cmd *cobra.Command, args []string) error {
	return withClient(cmd, "listing recurring invoices", func(cl clientCtx) error {
		items, err := cl.client.ListRecurring(cl.ctx)
		if err != nil {
			return err
		}
		return printResult(cmd, items, func() string {
			rows := make([][]string, 0, len(items))
			for _, r := range items {
				next := "-"
				if r.NextDate != nil {
					next = r.NextDate.String()
				}
				state := "active"
				if !r.Active {
					state = "paused"
				}
				rows = append(rows, []string{r.ID, r.Name, r.BuyerName, r.Frequency, next, r.NetAmount.StringFixed(2), state})
			}
			return tui.RenderTable([]string{"ID", "NAME", "BUYER", "FREQUENCY", "NEXT", "NET", "STATE"}, rows, "No recurring invoices.")
		})
	})
}

func runRecurringCreate(cmd *cobra.Command, args []string) error {
	in := models.RecurringInput{Name: args[0]}
	in.BuyerName, _ = cmd.Flags().GetString("buyer")
	in.Frequency, _ = cmd.Flags().GetString("frequency")
	in.Currency, _ = cmd.Flags().GetString("currency")
	in.Description, _ = cmd.Flags().GetString("description")
	if in.BuyerName == "" {
		return fmt.Errorf("--buyer is required")
	}
	switch in.Frequency {
	case "monthly", "quarterly", "yearly":
	default:
		return fmt.Errorf("unknown frequency %q (use monthly, quarterly or yearly)", in.Frequency)
	}

	net, _ := cmd.Flags().GetString("net")
	amount, err := decimal.NewFromString(net)
	if err != nil {
		return fmt.Errorf("invalid --net %q: %w", net, err)
	}
	in.NetAmount = amount
	rate, _ := cmd.Flags().GetString("tax-rate")
	if in.TaxRate, err = decimal.NewFromString(rate); err != nil {
		return fmt.Errorf("invalid --tax-rate %q: %w", rate, err)
	}
	if start, _ := cmd.Flags().GetString("start"); start != "" {
		if in.StartDate, err = models.ParseDate(start); err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
	}

	return withClient(cmd, "creating recurring invoice", func(cl clientCtx) error {
		r, err := cl.client.CreateRecurring(cl.ctx, in)
		if err != nil {
			return err
		}
		return printResult(cmd, r, func() string { return fmt.Sprintf("Created recurring invoice %s (%s).\n", r.Name, r.ID) })
	})
}

func runRecurringToggle(cmd *cobra.Command, args []string) error {
	return withClient(cmd, "toggling recurring invoice", func(cl clientCtx) error {
		r, err := cl.client.ToggleRecurring(cl.ctx, args[0])
		if err != nil {
			return err
		}
		state := "resumed"
		if !r.Active {
			state = "paused"
		}
		return printResult(cmd, r, func() string { return fmt.Sprintf("Recurring invoice %s %s.\n", r.Name, state) })
	})
}

func runTemplateList(cmd *cobra.Command, args []string) error {
	return withClient(cmd, "listing templates", func(cl clientCtx) error {
		items, err := cl.client.ListTemplates(cl.ctx)
		if err != nil {
			return err
		}
		return printResult(cmd, items, func() string {
			rows := make([][]string, 0, len(items))
			for _, t := range items {
				def := ""
				if t.IsDefault {
					def = "✓"
				}
				rows = append(rows, []string{t.ID, t.Name, t.Description, def})
			}
			return tui.RenderTable([]string{"ID", "NAME", "DESCRIPTION", "DEFAULT"}, rows, "No templates.")
		})
	})
}

func runTemplateCreate(cmd *cobra.Command, args []string) error {
	in := models.TemplateInput{Name: args[0]}
	in.Description, _ = cmd.Flags().GetString("description")
	in.IsDefault, _ = cmd.Flags().GetBool("default")

	return withClient(cmd, "creating template", func(cl clientCtx) error {
		t, err := cl.client.CreateTemplate(cl.ctx, in)
		if err != nil {
			return err
		}
		return printResult(cmd, t, func() string { return fmt.Sprintf("Created template %s (%s).\n", t.Name, t.ID) })
	})
}
