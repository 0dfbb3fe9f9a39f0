package handlers

import (
	"fmt"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/namnguyen191/Natours-API/internal/dto"
	"github.com/namnguyen191/Natours-API/internal/helper/utils"
	"github.com/namnguyen191/Natours-API/internal/interfaces"
	"github.com/namnguyen191/Natours-API/internal/services"
	"github.com/namnguyen191/Natours-API/pkg/imageutil"
)

const maxTourGalleryImages = 3

type TourHandler struct {
	svc      services.TourService
	uploader interfaces.Uploader
}

func NewTourHandler(svc services.TourService, uploader interfaces.Uploader) *TourHandler {
	return &TourHandler{svc: svc, uploader: uploader}
}

func (h *TourHandler) GetAllTours(ctx *fiber.Ctx) error {
	q := dto.TourListQuery{
		Sort:       ctx.Query("sort"),
		Difficulty: ctx.Query("difficulty"),
		Limit:      ctx.QueryInt("limit"),
		Page:       ctx.QueryInt("page"),
		MaxPrice:   ctx.QueryFloat("price[lte]"),
		MinRating:  ctx.QueryFloat("ratings_average[gte]"),
	}

	tours, err := h.svc.ListTours(q)
	if err != nil {
		return respondErr(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"results": len(tours),
		"data":    tours,
	})
}

// AliasTopTours pre-fills the query for the five best cheap tours: highest
// rating first, price ascending as the tiebreak.
func (h *TourHandler) AliasTopTours(ctx *fiber.Ctx) error {
	tours, err := h.svc.ListTours(dto.TourListQuery{
		Sort:  "-ratings_average,price",
		Limit: 5,
	})
	if err != nil {
		return respondErr(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"results": len(tours),
		"data":    tours,
	})
}

func (h *TourHandler) GetTour(ctx *fiber.Ctx) error {
	tourID, err := paramUint(ctx, "tourID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid tour id")
	}
	tour, err := h.svc.GetTour(tourID)
	if err != nil {
		return respondErr(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, tour)
}

func (h *TourHandler) CreateTour(ctx *fiber.Ctx) error {
	var requestBody dto.TourInput
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	tour, err := h.svc.CreateTour(requestBody)
	if err != nil {
		return respondErr(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, tour)
}

func (h *TourHandler) UpdateTour(ctx *fiber.Ctx) error {
	tourID, err := paramUint(ctx, "tourID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid tour id")
	}

	var requestBody dto.TourInput
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	tour, err := h.svc.UpdateTour(tourID, requestBody)
	if err != nil {
		return respondErr(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, tour)
}

func (h *TourHandler) DeleteTour(ctx *fiber.Ctx) error {
	tourID, err := paramUint(ctx, "tourID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid tour id")
	}
	if err := h.svc.DeleteTour(tourID); err != nil {
		return respondErr(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// UploadTourImages takes a multipart form with "imageCover" and up to three
// "images" files, normalizes each to a 2000x1333 JPEG and stores the hosted
// URLs on the tour.
func (h *TourHandler) UploadTourImages(ctx *fiber.Ctx) error {
	tourID, err := paramUint(ctx, "tourID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid tour id")
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "expected a multipart form")
	}

	var coverURL string
	if covers := form.File["imageCover"]; len(covers) > 0 {
		coverURL, err = h.uploadTourImage(ctx, tourID, covers[0], "cover")
		if err != nil {
			return err
		}
	}

	var imageURLs []string
	images := form.File["images"]
	if len(images) > maxTourGalleryImages {
		return utils.ResponseError(ctx, fiber.StatusBadRequest,
			fmt.Sprintf("at most %d gallery images allowed", maxTourGalleryImages))
	}
	for i, file := range images {
		url, err := h.uploadTourImage(ctx, tourID, file, strconv.Itoa(i+1))
		if err != nil {
			return err
		}
		imageURLs = append(imageURLs, url)
	}

	if coverURL == "" && len(imageURLs) == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "no images provided")
	}

	tour, err := h.svc.SetTourImages(tourID, coverURL, imageURLs)
	if err != nil {
		return respondErr(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, tour)
}

func (h *TourHandler) GetTourStats(ctx *fiber.Ctx) error {
	stats, err := h.svc.TourStats()
	if err != nil {
		return respondErr(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, stats)
}

func (h *TourHandler) GetMonthlyPlan(ctx *fiber.Ctx) error {
	year, err := strconv.Atoi(ctx.Params("year"))
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid year")
	}
	plan, err := h.svc.MonthlyPlan(year)
	if err != nil {
		return respondErr(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, plan)
}

// GET /tours-within/:distance/center/:latlng/unit/:unit
func (h *TourHandler) GetToursWithin(ctx *fiber.Ctx) error {
	distance, err := strconv.ParseFloat(ctx.Params("distance"), 64)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid distance")
	}
	lat, lng, err := parseLatLng(ctx.Params("latlng"))
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	tours, err := h.svc.ToursWithin(distance, lat, lng, ctx.Params("unit"))
	if err != nil {
		return respondErr(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"results": len(tours),
		"data":    tours,
	})
}

// GET /distances/:latlng/unit/:unit
func (h *TourHandler) GetDistances(ctx *fiber.Ctx) error {
	lat, lng, err := parseLatLng(ctx.Params("latlng"))
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	distances, err := h.svc.Distances(lat, lng, ctx.Params("unit"))
	if err != nil {
		return respondErr(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, distances)
}

func (h *TourHandler) uploadTourImage(ctx *fiber.Ctx, tourID uint, file *multipart.FileHeader, suffix string) (string, error) {
	raw, err := readImageFile(file)
	if err != nil {
		return "", utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	processed, err := imageutil.CoverJPG(raw, 2000, 1333, 90)
	if err != nil {
		return "", utils.ResponseError(ctx, fiber.StatusBadRequest, "could not process image")
	}

	filename := fmt.Sprintf("tour-%d-%d-%s", tourID, time.Now().UnixMilli(), suffix)
	url, err := h.uploader.UploadBytes(ctx.Context(), "natours/tours", filename, processed)
	if err != nil {
		return "", utils.ResponseError(ctx, fiber.StatusInternalServerError, "image upload failed")
	}
	return url, nil
}

func parseLatLng(latlng string) (float64, float64, error) {
	var lat, lng float64
	if _, err := fmt.Sscanf(latlng, "%f,%f", &lat, &lng); err != nil {
		return 0, 0, fmt.Errorf("please provide coordinates in the format lat,lng")
	}
	return lat, lng, nil
}
