package orders

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"

	"mandi/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

func receiptSecret() []byte {
	if v := os.Getenv("RECEIPT_SECRET"); v != "" {
		return []byte(v)
	}
	return []byte("mandi-receipt-secret")
}

// receiptPayload returns the signed string embedded in the receipt QR:
// orderId|consumerId|signature.
func receiptPayload(orderID, consumerID string) string {
	data := fmt.Sprintf("%s|%s", orderID, consumerID)
	h := hmac.New(sha256.New, receiptSecret())
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// Receipt renders the order as a PDF with an embedded verification QR code.
func (a *API) Receipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	order, ok := a.Store.OrderByID(ps.ByName("id"))
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if order.ConsumerID != userID {
		http.Error(w, "Not your order", http.StatusForbidden)
		return
	}

	qrPNG, err := qrcode.Encode(receiptPayload(order.ID, order.ConsumerID), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Digital Mandi Order Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Order ID: %s", order.ID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Status: %s", order.Status))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Order Date: %s", order.OrderDate.Format("2006-01-02 15:04")))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(80, 8, "Product")
	pdf.Cell(30, 8, "Qty")
	pdf.Cell(40, 8, "Price (INR)")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	for _, item := range order.Items {
		name := item.ProductID
		if product, ok := a.Store.ProductByID(item.ProductID); ok {
			name = product.Name
		}
		pdf.Cell(80, 8, name)
		pdf.Cell(30, 8, fmt.Sprintf("%d", item.Quantity))
		pdf.Cell(40, 8, fmt.Sprintf("%.2f", item.Price))
		pdf.Ln(8)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Total: %.2f INR", order.TotalAmount))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("receipt-qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("receipt-qr", 10, pdf.GetY(), 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to render receipt", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", order.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
