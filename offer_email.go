package main

import (
	"context"
	"fmt"
	"helsingbuss/libs/mailer"
)

func buildOfferEmail(offer Offer, pdf []byte, replyTo string) mailer.Message {
	subject := fmt.Sprintf("Offert %s - %s", offer.OfferNumber, offer.TripTitle)

	html := fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto; line-height: 1.6; color: #333;">
			<h2>Hej %s,</h2>
			<p>Tack för din förfrågan. Bifogat hittar du vår offert <strong>%s</strong> för resan <strong>%s</strong>.</p>
			<p>Priset för %d resenärer är <strong>%.2f kr</strong>.</p>
			<p style="font-size: 14px; color: #666;">
				Offerten är giltig i 30 dagar. Svara på detta mejl om du vill boka eller har frågor.
			</p>
			<hr style="margin-top: 40px; border: 0; border-top: 1px solid #eee;" />
			<p style="font-size: 12px; color: #999; text-align: center;">
				Helsingbuss - bekväma bussresor från Helsingborg
			</p>
		</div>
	`, offer.CustomerName, offer.OfferNumber, offer.TripTitle, offer.PassengerCount, offer.Amount)

	text := fmt.Sprintf(
		"Hej %s,\n\nTack för din förfrågan. Bifogat hittar du vår offert %s för resan %s.\n\nPriset för %d resenärer är %.2f kr.\n\nOfferten är giltig i 30 dagar.",
		offer.CustomerName, offer.OfferNumber, offer.TripTitle, offer.PassengerCount, offer.Amount,
	)

	return mailer.Message{
		To:      []string{offer.CustomerEmail},
		ReplyTo: replyTo,
		Subject: subject,
		HTML:    html,
		Text:    text,
		Attachments: []mailer.Attachment{{
			Filename:    fmt.Sprintf("offert-%s.pdf", offer.OfferNumber),
			ContentType: "application/pdf",
			Content:     pdf,
		}},
	}
}

func (a *App) sendOfferEmail(ctx context.Context, offer Offer) error {
	if offer.CustomerEmail == "" {
		return &apiError{Status: 400, Code: "missing_email", Message: "Offer has no customer email"}
	}

	pdf, err := buildOfferPDF(offer)
	if err != nil {
		return fmt.Errorf("failed to build offer pdf: %w", err)
	}

	msg := buildOfferEmail(offer, pdf, a.cfg.OfferReplyToAddress)
	if _, err := a.mailer.Send(msg); err != nil {
		return fmt.Errorf("failed to send offer email: %w", err)
	}

	a.log.Info("offer email sent", "offer_number", offer.OfferNumber, "to", offer.CustomerEmail)
	return nil
}
