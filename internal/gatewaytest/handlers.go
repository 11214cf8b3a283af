package gatewaytest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kunstgalerie/internal/model"
)

// --- products ---

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	q := s.DB.Preload("Images").Order("created_at desc")
	if id := eqParam(r, "id"); id != "" {
		q = q.Where("id = ?", id)
	}
	if cat := eqParam(r, "category"); cat != "" {
		q = q.Where("category = ?", cat)
	}
	var rows []productRow
	if err := q.Find(&rows).Error; err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) insertProduct(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	var in model.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Title == "" {
		writeErr(w, http.StatusBadRequest, "invalid product")
		return
	}
	row := productRow{
		ID:              uuid.NewString(),
		Title:           in.Title,
		Artist:          in.Artist,
		Price:           in.Price,
		Description:     in.Description,
		LongDescription: in.LongDescription,
		Year:            in.Year,
		Dimensions:      in.Dimensions,
		Technique:       in.Technique,
		Category:        in.Category,
		InStock:         in.InStock,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.DB.Create(&row).Error; err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, []model.Product{row.toModel()})
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	id := eqParam(r, "id")
	if id == "" {
		writeErr(w, http.StatusBadRequest, "id filter required")
		return
	}
	if err := s.DB.Where("id = ?", id).Delete(&productRow{}).Error; err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- cart ---

func (s *Server) listCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	// Row security: only the token's own rows, whatever filter was sent.
	var rows []cartRow
	if err := s.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&rows).Error; err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]model.CartItem, 0, len(rows))
	for _, row := range rows {
		var p productRow
		var embedded *model.Product
		if err := s.DB.Preload("Images").Where("id = ?", row.ProductID).First(&p).Error; err == nil {
			m := p.toModel()
			embedded = &m
		}
		out = append(out, row.toModel(embedded))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) updateCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id := eqParam(r, "id")
	var in struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || id == "" || in.Quantity < 1 {
		writeErr(w, http.StatusBadRequest, "invalid update")
		return
	}
	res := s.DB.Model(&cartRow{}).Where("id = ? AND user_id = ?", id, userID).Update("quantity", in.Quantity)
	if res.Error != nil {
		writeErr(w, http.StatusInternalServerError, res.Error.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id := eqParam(r, "id")
	if id == "" {
		writeErr(w, http.StatusBadRequest, "id filter required")
		return
	}
	if err := s.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&cartRow{}).Error; err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- likes ---

func (s *Server) listLikes(w http.ResponseWriter, r *http.Request) {
	q := s.DB.Model(&likeRow{})
	if pid := eqParam(r, "product_id"); pid != "" {
		q = q.Where("product_id = ?", pid)
	}
	if uid := eqParam(r, "user_id"); uid != "" {
		q = q.Where("user_id = ?", uid)
	}
	var rows []likeRow
	if err := q.Find(&rows).Error; err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]model.Like, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.Like{ID: row.ID, UserID: row.UserID, ProductID: row.ProductID})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) insertLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	var in struct {
		UserID    string `json:"user_id"`
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.ProductID == "" {
		writeErr(w, http.StatusBadRequest, "invalid like")
		return
	}
	if in.UserID != userID {
		writeErr(w, http.StatusForbidden, "row violates row-level security policy")
		return
	}
	row := likeRow{ID: uuid.NewString(), UserID: userID, ProductID: in.ProductID}
	if err := s.DB.Create(&row).Error; err != nil {
		writeErr(w, http.StatusConflict, "duplicate like")
		return
	}
	writeJSON(w, http.StatusCreated, []model.Like{{ID: row.ID, UserID: row.UserID, ProductID: row.ProductID}})
}

func (s *Server) deleteLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id := eqParam(r, "id")
	if id == "" {
		writeErr(w, http.StatusBadRequest, "id filter required")
		return
	}
	if err := s.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&likeRow{}).Error; err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- profiles / roles ---

func (s *Server) listProfiles(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	var rows []userRow
	if err := s.DB.Order("created_at desc").Find(&rows).Error; err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]model.Profile, 0, len(rows))
	for _, u := range rows {
		out = append(out, model.Profile{
			ID:        u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			CreatedAt: u.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) upsertRole(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	var in struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.UserID == "" || in.Role == "" {
		writeErr(w, http.StatusBadRequest, "invalid role row")
		return
	}
	var existing roleRow
	err := s.DB.Where("user_id = ? AND role = ?", in.UserID, in.Role).First(&existing).Error
	if err == nil {
		w.WriteHeader(http.StatusCreated) // upsert: already present
		return
	}
	if err := s.DB.Create(&roleRow{UserID: in.UserID, Role: in.Role}).Error; err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) deleteRole(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	uid := eqParam(r, "user_id")
	role := eqParam(r, "role")
	if uid == "" || role == "" {
		writeErr(w, http.StatusBadRequest, "user_id and role filters required")
		return
	}
	if err := s.DB.Where("user_id = ? AND role = ?", uid, role).Delete(&roleRow{}).Error; err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- rpc ---

func (s *Server) rpcHasRole(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID string `json:"_user_id"`
		Role   string `json:"_role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, "malformed arguments")
		return
	}
	var row roleRow
	err := s.DB.Where("user_id = ? AND role = ?", in.UserID, in.Role).First(&row).Error
	writeJSON(w, http.StatusOK, err == nil)
}

// rpcAddToCart is the atomic insert-or-increment. The whole check-and-write
// runs inside one transaction, which is the property the client-side
// read-then-write it replaces could not offer.
func (s *Server) rpcAddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	var in struct {
		ProductID string `json:"_product_id"`
		Quantity  int    `json:"_quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.ProductID == "" || in.Quantity < 1 {
		writeErr(w, http.StatusBadRequest, "invalid arguments")
		return
	}
	var result cartRow
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var p productRow
		if err := tx.Where("id = ?", in.ProductID).First(&p).Error; err != nil {
			return err
		}
		var row cartRow
		err := tx.Where("user_id = ? AND product_id = ?", userID, in.ProductID).First(&row).Error
		switch {
		case err == nil:
			row.Quantity += in.Quantity
			if err := tx.Model(&cartRow{}).Where("id = ?", row.ID).Update("quantity", row.Quantity).Error; err != nil {
				return err
			}
		case err == gorm.ErrRecordNotFound:
			row = cartRow{
				ID:        uuid.NewString(),
				UserID:    userID,
				ProductID: in.ProductID,
				Quantity:  in.Quantity,
				CreatedAt: time.Now().UTC(),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		default:
			return err
		}
		result = row
		return nil
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			writeErr(w, http.StatusNotFound, "product not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result.toModel(nil))
}
