package handler

import (
	"strconv"
	"strings"
	"time"

	"go-itstock/internal/repository"
	"go-itstock/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	dateLayout = "2006-01-02"
	// maxPageSize caps page_size on paginated listings.
	maxPageSize = 100
)

// getActor rebuilds the authenticated user set by RequireAuth.
func getActor(c *fiber.Ctx) service.Actor {
	actor := service.Actor{}
	if id, ok := c.Locals("user_id").(string); ok {
		actor.ID, _ = uuid.Parse(id)
	}
	actor.Username, _ = c.Locals("username").(string)
	actor.Name, _ = c.Locals("user_name").(string)
	actor.RoleCode, _ = c.Locals("role_code").(string)
	return actor
}

func parseID(c *fiber.Ctx, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, &service.ValidationError{Msg: "Invalid " + resource + " ID"}
	}
	return id, nil
}

// historyQuery reads ?q=&date=YYYY-MM-DD&page=&page_size= into a filter.
// The date is a calendar day in loc. The page size always lands in
// [1, maxPageSize]; callers wanting every row reset it afterwards.
func historyQuery(c *fiber.Ctx, loc *time.Location, defaultPageSize int) (repository.HistoryFilter, error) {
	filter := repository.HistoryFilter{
		Query:    strings.TrimSpace(c.Query("q")),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", defaultPageSize),
	}
	if date := strings.TrimSpace(c.Query("date")); date != "" {
		day, err := time.ParseInLocation(dateLayout, date, loc)
		if err != nil {
			return filter, &service.ValidationError{Msg: "Invalid date, use YYYY-MM-DD"}
		}
		filter.Day = day
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	filter.PageSize = min(max(filter.PageSize, 1), maxPageSize)
	return filter, nil
}

// isForm reports whether the request carries form fields rather than JSON.
func isForm(c *fiber.Ctx) bool {
	ct := strings.ToLower(string(c.Request().Header.ContentType()))
	return strings.HasPrefix(ct, fiber.MIMEApplicationForm) || strings.HasPrefix(ct, fiber.MIMEMultipartForm)
}

// formData holds every posted value by field name, with a trailing "[]"
// stripped so "qty[]" and "qty" collect into the same slice.
type formData map[string][]string

func readForm(c *fiber.Ctx) formData {
	data := formData{}
	add := func(key, value string) {
		key = strings.TrimSuffix(key, "[]")
		data[key] = append(data[key], value)
	}

	if strings.HasPrefix(strings.ToLower(string(c.Request().Header.ContentType())), fiber.MIMEMultipartForm) {
		if form, err := c.MultipartForm(); err == nil {
			for key, values := range form.Value {
				for _, v := range values {
					add(key, v)
				}
			}
		}
		return data
	}
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		add(string(key), string(value))
	})
	return data
}

func (f formData) get(key string) string {
	if values := f[key]; len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

// rows zips the named parallel arrays positionally. Rows whose fields are
// all blank are dropped; a shorter array reads as blank.
func (f formData) rows(keys ...string) [][]string {
	n := 0
	for _, k := range keys {
		if len(f[k]) > n {
			n = len(f[k])
		}
	}

	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(keys))
		blank := true
		for j, k := range keys {
			if i < len(f[k]) {
				row[j] = strings.TrimSpace(f[k][i])
			}
			if row[j] != "" {
				blank = false
			}
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows
}

// quantity parses a form quantity; blank reads as zero so the line is skipped.
func quantity(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	q, err := strconv.Atoi(s)
	if err != nil {
		return 0, &service.ValidationError{Msg: "Invalid quantity '" + s + "'"}
	}
	return q, nil
}

// productID parses a form product id; blank reads as uuid.Nil.
func productID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, &service.ValidationError{Msg: "Invalid product ID '" + s + "'"}
	}
	return id, nil
}
