// scraper/tokens.go
package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gewnthar/airtraffic/models"
)

// Hidden input ids the Data Elements form requires on every post back.
const (
	EventValidationID    = "__EVENTVALIDATION"
	ViewStateID          = "__VIEWSTATE"
	ViewStateGeneratorID = "__VIEWSTATEGENERATOR"
)

// ExtractTokens reads the three hidden form fields from the landing page markup.
// A missing field is a *models.ProtocolError naming the first token not found.
func ExtractTokens(html string) (models.TokenSet, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.TokenSet{}, fmt.Errorf("failed to parse landing page HTML: %w", err)
	}

	var tokens models.TokenSet
	fields := []struct {
		id  string
		dst *string
	}{
		{EventValidationID, &tokens.EventValidation},
		{ViewStateID, &tokens.ViewState},
		{ViewStateGeneratorID, &tokens.ViewStateGenerator},
	}
	for _, f := range fields {
		value, ok := doc.Find("#" + f.id).First().Attr("value")
		if !ok {
			return models.TokenSet{}, &models.ProtocolError{Token: f.id}
		}
		*f.dst = value
	}
	return tokens, nil
}
