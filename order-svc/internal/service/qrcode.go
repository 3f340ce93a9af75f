package service

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/skip2/go-qrcode"
)

var referencePattern = regexp.MustCompile(`^BK-[0-9A-F]{8}$`)

func ValidReference(reference string) bool {
	return referencePattern.MatchString(reference)
}

type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(reference string) ([]byte, error) {
	qrData := fmt.Sprintf("%s/order?ref=%s", g.BaseURL, url.QueryEscape(reference))
	return qrcode.Encode(qrData, qrcode.Medium, 256)
}
