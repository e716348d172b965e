package api_test

import "einvoice/pkg/models"

func parseDate(s string) (*models.Date, error) {
	return models.ParseDate(s)
}

func datevOptions(from *models.Date) models.DATEVExportOptions {
	return models.DATEVExportOptions{
		DateRange:       models.DateRange{From: from},
		Format:          models.DATEVFormatEXTF,
		ChartOfAccounts: "skr04",
	}
}
