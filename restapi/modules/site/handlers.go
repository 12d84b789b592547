// Package site provides the handlers for the marketing pages and the app
// shell.
package site

import (
	"strings"

	"github.com/effiwise/effimappro/internal/site"
	"github.com/effiwise/effimappro/internal/store"
	"github.com/effiwise/effimappro/restapi/modules/auth"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DefaultQuotePlan and DefaultQuoteUsers seed the pricing calculator
const (
	DefaultQuotePlan  = "professional"
	DefaultQuoteUsers = 5
)

// ContactSender delivers a contact form message
type ContactSender interface {
	Send(form site.ContactForm) error
}

func html(c *fiber.Ctx, page []byte, err error) error {
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to render page")
	}
	c.Type("html", "utf-8")
	return c.Send(page)
}

// Home renders the landing page
func Home(pages *site.Pages) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := pages.Home()
		return html(c, page, err)
	}
}

// Features renders the features page
func Features(pages *site.Pages) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := pages.Features()
		return html(c, page, err)
	}
}

// About renders the about page
func About(pages *site.Pages) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := pages.About()
		return html(c, page, err)
	}
}

// Pricing renders the pricing page. ?plan= and ?users= drive the calculator.
func Pricing(pages *site.Pages) fiber.Handler {
	return func(c *fiber.Ctx) error {
		quote, err := site.NewQuote(c.Query("plan", DefaultQuotePlan), c.QueryInt("users", DefaultQuoteUsers))
		if err != nil {
			quote, _ = site.NewQuote(DefaultQuotePlan, DefaultQuoteUsers)
		}
		page, err := pages.Pricing(quote)
		return html(c, page, err)
	}
}

// Quote prices a plan for a number of users
func Quote() fiber.Handler {
	return func(c *fiber.Ctx) error {
		quote, err := site.NewQuote(c.Query("plan"), c.QueryInt("users", 1))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(quote)
	}
}

// ListPlans returns the pricing tiers
func ListPlans() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"plans": site.Plans, "discounts": site.DiscountTiers})
	}
}

// Contact renders the empty contact page
func Contact(pages *site.Pages) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := pages.Contact(site.ContactForm{}, nil, false)
		return html(c, page, err)
	}
}

// SubmitContact validates a contact form post and emails it to sales. JSON
// posts get a JSON reply; form posts get the contact page back.
func SubmitContact(pages *site.Pages, sender ContactSender, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		wantsJSON := strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEApplicationJSON)

		var form site.ContactForm
		if err := c.BodyParser(&form); err != nil {
			if wantsJSON {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
			}
			page, err := pages.Contact(form, []string{"Invalid form submission."}, false)
			return html(c.Status(fiber.StatusBadRequest), page, err)
		}

		if errs := form.Validate(); len(errs) > 0 {
			if wantsJSON {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errs[0], "errors": errs})
			}
			page, err := pages.Contact(form, errs, false)
			return html(c.Status(fiber.StatusBadRequest), page, err)
		}

		if err := sender.Send(form); err != nil {
			logger.Sugar().Errorf("Failed to send contact request: %v", err)
			msg := "We could not send your message. Please try again later."
			if wantsJSON {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msg})
			}
			page, err := pages.Contact(form, []string{msg}, false)
			return html(c.Status(fiber.StatusInternalServerError), page, err)
		}

		if wantsJSON {
			return c.JSON(fiber.Map{"message": "Thank you! We will be in touch shortly."})
		}
		page, err := pages.Contact(site.ContactForm{}, nil, true)
		return html(c, page, err)
	}
}

// App renders the app shell, or the sign-in page when there is no session.
// The path after /app/ selects the open panel.
func App(pages *site.Pages, sessions auth.Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := auth.CurrentUser(c)
		if !ok {
			page, err := pages.SignIn(c.Query("error"))
			return html(c, page, err)
		}

		st := sessions.Resolve(c.UserContext(), user)
		panel := store.Panel(strings.Trim(c.Params("*"), "/"))
		if err := st.SetActivePanel(panel); err != nil {
			return c.Redirect("/app")
		}

		page, err := pages.App(user, string(panel))
		return html(c, page, err)
	}
}

// Fallback sends unknown API paths a 404 and every other path home
func Fallback() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
		}
		return c.Redirect("/")
	}
}
