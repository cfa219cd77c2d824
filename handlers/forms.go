package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"asha_connect_go/config"
	"asha_connect_go/db"
	"asha_connect_go/models"
	"asha_connect_go/realtime"
	"asha_connect_go/services"

	"github.com/labstack/echo/v4"
)

// PushHub is the realtime hub new submissions are announced on.
// Set by cmd/server at startup; nil disables push (tests, CLI tools).
var PushHub *realtime.Hub

func broadcast(event string, payload interface{}) {
	if PushHub != nil && event != "" {
		PushHub.Broadcast(event, payload)
	}
}

func alertAdmins(c echo.Context, kind string, fields []services.AlertField) {
	cfg, ok := c.Get("config").(*config.Config)
	if !ok {
		return
	}
	email, err := services.BuildSubmissionAlert(cfg, kind, fields)
	if err != nil {
		// Missing recipients is a configuration choice, not a failure
		return
	}
	services.SendEmailAsync(cfg, email)
}

func validEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func requireTerms(c echo.Context, errs []FieldError) []FieldError {
	if c.FormValue("terms_accepted") != "true" {
		errs = append(errs, FieldError{Field: "terms_accepted", Message: "You must accept the terms to continue"})
	}
	return errs
}

// SubmitContactHandler handles POST /api/forms/contact
func SubmitContactHandler(c echo.Context) error {
	name := services.SanitizeText(c.FormValue("name"))
	email := strings.TrimSpace(c.FormValue("email"))
	phone := services.SanitizeText(c.FormValue("phone"))
	message := services.SanitizeText(c.FormValue("message"))

	var errs []FieldError
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "Name is required"})
	}
	if email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "Email is required"})
	} else if !validEmail(email) {
		errs = append(errs, FieldError{Field: "email", Message: "Email is not valid"})
	}
	if message == "" {
		errs = append(errs, FieldError{Field: "message", Message: "Message is required"})
	}
	errs = requireTerms(c, errs)
	if len(errs) > 0 {
		return respondFieldErrors(c, errs)
	}

	contact := models.Contact{
		Name:    name,
		Email:   email,
		Phone:   phone,
		Message: message,
		Status:  models.StatusNew,
	}
	if err := db.DB.Create(&contact).Error; err != nil {
		c.Logger().Errorf("Failed to save contact: %v", err)
		return respondError(c, http.StatusInternalServerError, "Failed to submit your message. Please try again.")
	}

	broadcast("new_contact", contact)
	alertAdmins(c, "contact message", []services.AlertField{
		{Label: "Name", Value: contact.Name},
		{Label: "Email", Value: contact.Email},
		{Label: "Message", Value: contact.Message},
	})

	return respondOK(c, nil, "Thank you for reaching out. We will get back to you soon.")
}

// SubmitHelpRequestHandler handles POST /api/forms/help
func SubmitHelpRequestHandler(c echo.Context) error {
	fullName := services.SanitizeText(c.FormValue("full_name"))
	phone := services.SanitizeText(c.FormValue("phone"))
	emergency := strings.TrimSpace(c.FormValue("emergency"))
	description := services.SanitizeText(c.FormValue("description"))

	// The form posts one checkbox value per selected help category
	var helpTypes []string
	if form, err := c.FormParams(); err == nil {
		for _, v := range form["help_types"] {
			if t := services.SanitizeText(v); t != "" {
				helpTypes = append(helpTypes, t)
			}
		}
	}

	if emergency == "" {
		emergency = models.EmergencyLow
	}

	var errs []FieldError
	if fullName == "" {
		errs = append(errs, FieldError{Field: "full_name", Message: "Full name is required"})
	}
	if phone == "" {
		errs = append(errs, FieldError{Field: "phone", Message: "Phone number is required"})
	}
	if !models.IsValidEmergency(emergency) {
		errs = append(errs, FieldError{Field: "emergency", Message: "Unknown emergency level"})
	}
	if len(helpTypes) == 0 {
		errs = append(errs, FieldError{Field: "help_types", Message: "Select at least one type of help"})
	}
	errs = requireTerms(c, errs)
	if len(errs) > 0 {
		return respondFieldErrors(c, errs)
	}

	helpRequest := models.HelpRequest{
		FullName:    fullName,
		Phone:       phone,
		Emergency:   emergency,
		HelpTypes:   strings.Join(helpTypes, ", "),
		Description: description,
		Status:      models.StatusNew,
	}

	// Optional supporting document
	if file, err := c.FormFile("file"); err == nil && file != nil {
		if err := services.ValidateDocumentUpload(file); err != nil {
			return respondFieldErrors(c, []FieldError{{Field: "file", Message: err.Error()}})
		}
		storageKey := services.GenerateSubmissionFileKey(models.TypeHelpRequests, file.Filename)
		result, err := services.Storage.Upload(context.Background(), file, storageKey)
		if err != nil {
			c.Logger().Errorf("Failed to store help request file: %v", err)
			return respondError(c, http.StatusInternalServerError, "Failed to upload file. Please try again.")
		}
		helpRequest.FileName = result.FileName
		helpRequest.FilePath = result.Key
		helpRequest.FileSize = result.FileSize
	}

	if err := db.DB.Create(&helpRequest).Error; err != nil {
		if helpRequest.FilePath != "" {
			services.Storage.Delete(context.Background(), helpRequest.FilePath)
		}
		c.Logger().Errorf("Failed to save help request: %v", err)
		return respondError(c, http.StatusInternalServerError, "Failed to submit your request. Please try again.")
	}

	broadcast("new_help_request", helpRequest)
	alertAdmins(c, "help request", []services.AlertField{
		{Label: "Name", Value: helpRequest.FullName},
		{Label: "Phone", Value: helpRequest.Phone},
		{Label: "Emergency", Value: helpRequest.Emergency},
		{Label: "Help types", Value: helpRequest.HelpTypes},
	})

	return respondOK(c, nil, "Your request has been received. Our team will contact you shortly.")
}

// SubmitDonationHandler handles POST /api/forms/donate
func SubmitDonationHandler(c echo.Context) error {
	fullName := services.SanitizeText(c.FormValue("full_name"))
	mobile := services.SanitizeText(c.FormValue("mobile"))
	email := strings.TrimSpace(c.FormValue("email"))
	pan := services.SanitizeText(c.FormValue("pan"))
	message := services.SanitizeText(c.FormValue("message"))
	amountRaw := strings.TrimSpace(c.FormValue("amount"))

	var errs []FieldError
	if fullName == "" {
		errs = append(errs, FieldError{Field: "full_name", Message: "Full name is required"})
	}
	if mobile == "" {
		errs = append(errs, FieldError{Field: "mobile", Message: "Mobile number is required"})
	}
	if email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "Email is required"})
	} else if !validEmail(email) {
		errs = append(errs, FieldError{Field: "email", Message: "Email is not valid"})
	}
	amount, err := strconv.ParseFloat(amountRaw, 64)
	if amountRaw == "" || err != nil || amount <= 0 {
		errs = append(errs, FieldError{Field: "amount", Message: "Enter a valid donation amount"})
	}
	errs = requireTerms(c, errs)
	if len(errs) > 0 {
		return respondFieldErrors(c, errs)
	}

	donation := models.Donation{
		FullName: fullName,
		Mobile:   mobile,
		Email:    email,
		Amount:   amount,
		PAN:      pan,
		Message:  message,
		Status:   models.StatusNew,
	}
	if err := db.DB.Create(&donation).Error; err != nil {
		c.Logger().Errorf("Failed to save donation: %v", err)
		return respondError(c, http.StatusInternalServerError, "Failed to record your donation. Please try again.")
	}

	broadcast("new_donation", donation)
	alertAdmins(c, "donation", []services.AlertField{
		{Label: "Name", Value: donation.FullName},
		{Label: "Email", Value: donation.Email},
		{Label: "Amount", Value: fmt.Sprintf("%.2f", donation.Amount)},
	})

	return respondOK(c, nil, "Thank you for your generous contribution.")
}

// SubmitApplicationHandler handles POST /api/join (volunteer applications)
func SubmitApplicationHandler(c echo.Context) error {
	fullName := services.SanitizeText(c.FormValue("full_name"))
	phone := services.SanitizeText(c.FormValue("phone"))
	email := strings.TrimSpace(c.FormValue("email"))
	state := services.SanitizeText(c.FormValue("state"))
	city := services.SanitizeText(c.FormValue("city"))
	motivation := services.SanitizeText(c.FormValue("motivation"))

	var errs []FieldError
	if fullName == "" {
		errs = append(errs, FieldError{Field: "full_name", Message: "Full name is required"})
	}
	if phone == "" {
		errs = append(errs, FieldError{Field: "phone", Message: "Phone number is required"})
	}
	if email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "Email is required"})
	} else if !validEmail(email) {
		errs = append(errs, FieldError{Field: "email", Message: "Email is not valid"})
	}
	errs = requireTerms(c, errs)
	if len(errs) > 0 {
		return respondFieldErrors(c, errs)
	}

	applicant := models.Applicant{
		FullName:   fullName,
		Phone:      phone,
		Email:      email,
		State:      state,
		City:       city,
		Motivation: motivation,
		Status:     models.StatusNew,
	}

	// Optional resume upload
	if file, err := c.FormFile("file"); err == nil && file != nil {
		if err := services.ValidateDocumentUpload(file); err != nil {
			return respondFieldErrors(c, []FieldError{{Field: "file", Message: err.Error()}})
		}
		storageKey := services.GenerateSubmissionFileKey(models.TypeApplicants, file.Filename)
		result, err := services.Storage.Upload(context.Background(), file, storageKey)
		if err != nil {
			c.Logger().Errorf("Failed to store resume: %v", err)
			return respondError(c, http.StatusInternalServerError, "Failed to upload file. Please try again.")
		}
		applicant.FileName = result.FileName
		applicant.FilePath = result.Key
		applicant.FileSize = result.FileSize
	}

	if err := db.DB.Create(&applicant).Error; err != nil {
		if applicant.FilePath != "" {
			services.Storage.Delete(context.Background(), applicant.FilePath)
		}
		c.Logger().Errorf("Failed to save application: %v", err)
		return respondError(c, http.StatusInternalServerError, "Failed to submit your application. Please try again.")
	}

	broadcast("new_applicant", applicant)
	alertAdmins(c, "volunteer application", []services.AlertField{
		{Label: "Name", Value: applicant.FullName},
		{Label: "Email", Value: applicant.Email},
		{Label: "State", Value: applicant.State},
	})

	return respondOK(c, nil, "Thank you for applying. We will be in touch.")
}
