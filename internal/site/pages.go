package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/effiwise/effimappro/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names
const (
	PageHome     = "home"
	PageFeatures = "features"
	PagePricing  = "pricing"
	PageAbout    = "about"
	PageContact  = "contact"
	PageApp      = "app"
	PageSignIn   = "signin"
)

var pageTitles = map[string]string{
	PageHome:     "Territory Management",
	PageFeatures: "Features",
	PagePricing:  "Pricing",
	PageAbout:    "About",
	PageContact:  "Contact",
	PageApp:      "App",
	PageSignIn:   "Sign In",
}

// Pages renders the site from the embedded templates
type Pages struct {
	templates map[string]*template.Template
	now       func() time.Time
}

// NewPages parses every page against the shared layout
func NewPages() (*Pages, error) {
	p := &Pages{templates: make(map[string]*template.Template), now: time.Now}
	for name := range pageTitles {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		p.templates[name] = tmpl
	}
	return p, nil
}

type pageData struct {
	Title  string
	Active string
	Year   int
}

func (p *Pages) base(name string) pageData {
	active := name
	if name == PageSignIn {
		active = PageApp
	}
	return pageData{Title: pageTitles[name], Active: active, Year: p.now().Year()}
}

func (p *Pages) render(name string, data interface{}) ([]byte, error) {
	tmpl, ok := p.templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Home renders the landing page
func (p *Pages) Home() ([]byte, error) {
	return p.render(PageHome, struct {
		pageData
		Highlights   []Highlight
		Stats        []Stat
		Testimonials []Testimonial
	}{p.base(PageHome), homeHighlights, stats, testimonials})
}

// Features renders the features page
func (p *Pages) Features() ([]byte, error) {
	return p.render(PageFeatures, struct {
		pageData
		Sections []FeatureSection
	}{p.base(PageFeatures), featureSections})
}

// Pricing renders the pricing page with a volume quote
func (p *Pages) Pricing(quote Quote) ([]byte, error) {
	return p.render(PagePricing, struct {
		pageData
		Plans []Plan
		Quote Quote
	}{p.base(PagePricing), Plans, quote})
}

// About renders the about page
func (p *Pages) About() ([]byte, error) {
	return p.render(PageAbout, struct {
		pageData
		Values []Highlight
	}{p.base(PageAbout), values})
}

// Contact renders the contact page. errs and sent describe the outcome of
// a form post.
func (p *Pages) Contact(form ContactForm, errs []string, sent bool) ([]byte, error) {
	return p.render(PageContact, struct {
		pageData
		ContactOptions []ContactOption
		Form           ContactForm
		Errors         []string
		Sent           bool
	}{p.base(PageContact), ContactOptions, form, errs, sent})
}

// App renders the application shell for a signed-in user
func (p *Pages) App(user model.User, panel string) ([]byte, error) {
	return p.render(PageApp, struct {
		pageData
		User  model.User
		Panel string
	}{p.base(PageApp), user, panel})
}

// SignIn renders the sign-in page shown when there is no session
func (p *Pages) SignIn(errMsg string) ([]byte, error) {
	return p.render(PageSignIn, struct {
		pageData
		Error string
	}{p.base(PageSignIn), errMsg})
}
