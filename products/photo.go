package products

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"mandi/store"
	"mandi/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
)

const uploadDir = "./static/uploads/products"

// UploadPhoto stores a product image and a 300px-wide thumbnail, then
// points the product's image reference at the stored file.
func (a *API) UploadPhoto(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id := ps.ByName("id")
	product, ok := a.Store.ProductByID(id)
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if product.FarmerID != userID {
		http.Error(w, "Not your product", http.StatusForbidden)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "photo file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		http.Error(w, "Invalid image", http.StatusBadRequest)
		return
	}

	if err := os.MkdirAll(uploadDir, os.ModePerm); err != nil {
		http.Error(w, "Failed to store image", http.StatusInternalServerError)
		return
	}

	originalPath := filepath.Join(uploadDir, fmt.Sprintf("%s.jpg", id))
	thumbPath := filepath.Join(uploadDir, fmt.Sprintf("%s_thumb.jpg", id))

	if err := imaging.Save(img, originalPath); err != nil {
		http.Error(w, "Failed to store image", http.StatusInternalServerError)
		return
	}
	thumb := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath); err != nil {
		http.Error(w, "Failed to store thumbnail", http.StatusInternalServerError)
		return
	}

	image := "/" + filepath.ToSlash(filepath.Join("static/uploads/products", fmt.Sprintf("%s.jpg", id)))
	a.Store.UpdateProduct(id, store.ProductUpdate{Image: &image})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"image":     image,
		"thumbnail": "/" + filepath.ToSlash(filepath.Join("static/uploads/products", fmt.Sprintf("%s_thumb.jpg", id))),
	})
}
