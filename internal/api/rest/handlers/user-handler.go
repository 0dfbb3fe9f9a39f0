package handlers

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/namnguyen191/Natours-API/internal/api/rest/middleware"
	"github.com/namnguyen191/Natours-API/internal/dto"
	"github.com/namnguyen191/Natours-API/internal/helper/utils"
	"github.com/namnguyen191/Natours-API/internal/interfaces"
	"github.com/namnguyen191/Natours-API/internal/services"
	"github.com/namnguyen191/Natours-API/pkg/imageutil"
	pkgutils "github.com/namnguyen191/Natours-API/pkg/utils"
)

const maxUploadSize = 5 * 1024 * 1024 // 5MB

var allowedImageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

type UserHandler struct {
	svc      services.UserService
	uploader interfaces.Uploader
}

func NewUserHandler(svc services.UserService, uploader interfaces.Uploader) *UserHandler {
	return &UserHandler{svc: svc, uploader: uploader}
}

func (h *UserHandler) Me(ctx *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "you are not logged in")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, user)
}

// UpdateMe accepts either a JSON body or a multipart form with an optional
// "photo" file. Password changes are rejected here; they have their own route.
func (h *UserHandler) UpdateMe(ctx *fiber.Ctx) error {
	current, ok := middleware.CurrentUser(ctx)
	if !ok {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "you are not logged in")
	}

	var requestBody struct {
		Name            *string `json:"name" form:"name"`
		Email           *string `json:"email" form:"email"`
		Password        string  `json:"password" form:"password"`
		PasswordConfirm string  `json:"passwordConfirm" form:"passwordConfirm"`
	}
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}
	if requestBody.Password != "" || requestBody.PasswordConfirm != "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "this route is not for password updates, please use /updateMyPassword")
	}

	input := dto.UpdateMeRequest{Name: requestBody.Name, Email: requestBody.Email}

	if file, err := ctx.FormFile("photo"); err == nil && file != nil {
		photoURL, upErr := h.uploadPhoto(ctx, current.ID, file)
		if upErr != nil {
			return upErr
		}
		input.Photo = &photoURL
	}

	user, err := h.svc.UpdateMe(current.ID, input)
	if err != nil {
		return respondErr(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, user)
}

func (h *UserHandler) DeleteMe(ctx *fiber.Ctx) error {
	current, ok := middleware.CurrentUser(ctx)
	if !ok {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "you are not logged in")
	}
	if err := h.svc.DeleteMe(current.ID); err != nil {
		return respondErr(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// Admin CRUD

func (h *UserHandler) GetAllUsers(ctx *fiber.Ctx) error {
	users, err := h.svc.ListUsers()
	if err != nil {
		return respondErr(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, users)
}

func (h *UserHandler) GetUser(ctx *fiber.Ctx) error {
	userID, err := paramUint(ctx, "userID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid user id")
	}
	user, err := h.svc.GetUser(userID)
	if err != nil {
		return respondErr(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, user)
}

func (h *UserHandler) UpdateUser(ctx *fiber.Ctx) error {
	userID, err := paramUint(ctx, "userID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid user id")
	}

	var requestBody dto.AdminUpdateUserRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	user, err := h.svc.UpdateUser(userID, requestBody)
	if err != nil {
		return respondErr(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, user)
}

func (h *UserHandler) DeleteUser(ctx *fiber.Ctx) error {
	userID, err := paramUint(ctx, "userID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid user id")
	}
	if err := h.svc.DeleteUser(userID); err != nil {
		return respondErr(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// uploadPhoto normalizes the upload to a 500x500 JPEG and ships it to the
// image CDN, returning the hosted URL.
func (h *UserHandler) uploadPhoto(ctx *fiber.Ctx, userID uint, file *multipart.FileHeader) (string, error) {
	raw, err := readImageFile(file)
	if err != nil {
		return "", utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	processed, err := imageutil.CoverJPG(raw, 500, 500, 90)
	if err != nil {
		return "", utils.ResponseError(ctx, fiber.StatusBadRequest, "could not process image")
	}

	filename := fmt.Sprintf("user-%d-%d", userID, time.Now().UnixMilli())
	url, err := h.uploader.UploadBytes(ctx.Context(), "natours/users", filename, processed)
	if err != nil {
		return "", utils.ResponseError(ctx, fiber.StatusInternalServerError, "image upload failed")
	}
	return url, nil
}

func readImageFile(file *multipart.FileHeader) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExt[ext] {
		return nil, fmt.Errorf("not an image, please upload only jpg/jpeg/png/webp")
	}
	if file.Size > maxUploadSize {
		return nil, fmt.Errorf("file too large (max 5MB)")
	}

	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("cannot open uploaded file")
	}
	defer f.Close()

	return pkgutils.ReadAllLimit(f, maxUploadSize)
}

func paramUint(ctx *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(ctx.Params(name), 10, 32)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return uint(v), nil
}
