package main

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// buildOfferPDF renders a one-page quote document for a customer offer.
func buildOfferPDF(offer Offer) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Helsingbuss")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Offert %s", offer.OfferNumber))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Datum: %s", offer.CreatedAt.Format("2006-01-02")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Kund: %s", offer.CustomerName))
	pdf.Ln(7)
	if offer.CustomerEmail != "" {
		pdf.Cell(0, 8, fmt.Sprintf("E-post: %s", offer.CustomerEmail))
		pdf.Ln(7)
	}
	if offer.CustomerPhone != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Telefon: %s", offer.CustomerPhone))
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, "Resa")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("- %s", offer.TripTitle))
	pdf.Ln(6)
	departure := offer.DepartureDate
	if offer.ReturnDate != nil && *offer.ReturnDate != "" {
		departure = fmt.Sprintf("%s - %s", offer.DepartureDate, *offer.ReturnDate)
	}
	pdf.Cell(0, 6, fmt.Sprintf("- Avresa: %s", departure))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("- Antal resenärer: %d", offer.PassengerCount))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Pris: %.2f kr", offer.Amount))
	pdf.Ln(10)

	if offer.Notes != "" {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 8, "Anteckningar")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, offer.Notes, "", "L", false)
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, "Offerten är giltig i 30 dagar från ovanstående datum.")

	buffer := bytes.NewBuffer(nil)
	if err := pdf.Output(buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
