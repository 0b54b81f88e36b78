// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package codes

import (
	"context"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	qrMargin = 1
	qrWidth  = 300
)

// QRFilename is the download name for a code's QR image.
func QRFilename(code string) string {
	return "qr-code-" + code + ".svg"
}

// RenderQRSVG encodes content as a square SVG QR code with a one-module
// quiet zone.
func RenderQRSVG(content string) ([]byte, error) {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	q.DisableBorder = true
	bitmap := q.Bitmap()
	size := len(bitmap) + 2*qrMargin

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`,
		qrWidth, qrWidth, size, size)
	fmt.Fprintf(&sb, `<rect width="%d" height="%d" fill="#ffffff"/>`, size, size)
	sb.WriteString(`<path fill="#000000" d="`)
	for y, row := range bitmap {
		for x, dark := range row {
			if dark {
				fmt.Fprintf(&sb, "M%d %dh1v1h-1z", x+qrMargin, y+qrMargin)
			}
		}
	}
	sb.WriteString(`"/></svg>`)

	return []byte(sb.String()), nil
}

// QRTarget is the URL encoded into a code's QR image.
func (s *Service) QRTarget(value string) string {
	return s.baseURL + "/c/" + value
}

// QR renders the QR image for the code with the given ID.
func (s *Service) QR(ctx context.Context, id string) (svg []byte, filename string, err error) {
	code, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	svg, err = RenderQRSVG(s.QRTarget(code.Code))
	if err != nil {
		return nil, "", fmt.Errorf("render qr: %w", err)
	}
	return svg, QRFilename(code.Code), nil
}
