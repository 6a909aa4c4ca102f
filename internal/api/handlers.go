package api

import (
	"errors"
	"io"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/iamhollywoodpro/strivetrack/internal/auth"
	"github.com/iamhollywoodpro/strivetrack/internal/constants"
	"github.com/iamhollywoodpro/strivetrack/internal/media"
	"github.com/iamhollywoodpro/strivetrack/internal/models"
	"github.com/iamhollywoodpro/strivetrack/internal/tracker"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type AuthResponse struct {
	Success   bool        `json:"success"`
	Token     string      `json:"token,omitempty"`
	ExpiresAt string      `json:"expires_at,omitempty"`
	Online    bool        `json:"online"`
	User      models.User `json:"user"`
}

func badBody(err error) error {
	return fiber.NewError(fiber.StatusBadRequest, "Invalid request body: "+err.Error())
}

func sessionResponse(sess *auth.Session) AuthResponse {
	return AuthResponse{
		Success:   true,
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt.Format(time.RFC3339),
		Online:    sess.Online,
		User:      sess.User,
	}
}

func (s *Server) login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(err)
	}
	sess, err := s.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(sessionResponse(sess))
}

func (s *Server) register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(err)
	}
	sess, err := s.auth.Register(c.UserContext(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Confirm:  req.ConfirmPassword,
	})
	if errors.Is(err, auth.ErrConfirmationRequired) {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"success": true, "message": err.Error()})
	}
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(sessionResponse(sess))
}

func (s *Server) resetPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(err)
	}
	if err := s.auth.ResetPassword(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Password reset email sent! Check your inbox."})
}

func (s *Server) me(c *fiber.Ctx) error {
	claims := claimsFrom(c)
	return c.JSON(fiber.Map{
		"id":     claims.UserID,
		"email":  claims.Email,
		"role":   claims.Role,
		"online": claims.Online,
	})
}

func (s *Server) listUsers(c *fiber.Ctx) error {
	users, err := s.auth.Directory()
	if err != nil {
		return err
	}
	online := 0
	for _, u := range users {
		if u.Online {
			online++
		}
	}
	return c.JSON(fiber.Map{"success": true, "users": users, "online": online})
}

// result wraps a mutation's return value with its outcome.
func result(c *fiber.Ctx, status int, data any, out tracker.Outcome) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data, "outcome": out})
}

func dashboard(c *fiber.Ctx, svc *tracker.Service) error {
	d, err := svc.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(d)
}

func getPoints(c *fiber.Ctx, svc *tracker.Service) error {
	b, err := svc.Points(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(b)
}

func listAchievements(c *fiber.Ctx, svc *tracker.Service) error {
	board, err := svc.Achievements(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(board)
}

func listHabits(c *fiber.Ctx, svc *tracker.Service) error {
	views, err := svc.Habits()
	if err != nil {
		return err
	}
	return c.JSON(views)
}

func createHabit(c *fiber.Ctx, svc *tracker.Service) error {
	var in tracker.HabitInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(err)
	}
	h, out, err := svc.CreateHabit(c.UserContext(), in)
	if err != nil {
		return err
	}
	return result(c, fiber.StatusCreated, h, out)
}

func createSampleHabits(c *fiber.Ctx, svc *tracker.Service) error {
	habits, out, err := svc.CreateSampleHabits(c.UserContext())
	if err != nil {
		return err
	}
	return result(c, fiber.StatusCreated, habits, out)
}

func toggleCompletion(c *fiber.Ctx, svc *tracker.Service) error {
	var req struct {
		Date string `json:"date"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badBody(err)
		}
	}
	done, out, err := svc.ToggleCompletion(c.UserContext(), c.Params("id"), req.Date)
	if err != nil {
		return err
	}
	return result(c, fiber.StatusOK, fiber.Map{"completed": done}, out)
}

func deleteHabit(c *fiber.Ctx, svc *tracker.Service) error {
	out, err := svc.DeleteHabit(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return result(c, fiber.StatusOK, nil, out)
}

func listGoals(c *fiber.Ctx, svc *tracker.Service) error {
	goals, err := svc.Goals()
	if err != nil {
		return err
	}
	stats, err := svc.GoalStats()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"goals": goals, "stats": stats})
}

func createGoal(c *fiber.Ctx, svc *tracker.Service) error {
	var in tracker.GoalInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(err)
	}
	g, out, err := svc.CreateGoal(c.UserContext(), in)
	if err != nil {
		return err
	}
	return result(c, fiber.StatusCreated, g, out)
}

func updateGoalProgress(c *fiber.Ctx, svc *tracker.Service) error {
	var req struct {
		Increment float64 `json:"increment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(err)
	}
	g, out, err := svc.UpdateGoalProgress(c.UserContext(), c.Params("id"), req.Increment)
	if err != nil {
		return err
	}
	return result(c, fiber.StatusOK, g, out)
}

func completeGoal(c *fiber.Ctx, svc *tracker.Service) error {
	g, out, err := svc.CompleteGoal(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return result(c, fiber.StatusOK, g, out)
}

func deleteGoal(c *fiber.Ctx, svc *tracker.Service) error {
	out, err := svc.DeleteGoal(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return result(c, fiber.StatusOK, nil, out)
}

func foodLog(c *fiber.Ctx, svc *tracker.Service) error {
	entries, err := svc.FoodLog(c.Query("date"))
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

func addFood(c *fiber.Ctx, svc *tracker.Service) error {
	var in tracker.FoodInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(err)
	}
	e, out, err := svc.AddFood(c.UserContext(), in)
	if err != nil {
		return err
	}
	return result(c, fiber.StatusCreated, e, out)
}

func deleteFood(c *fiber.Ctx, svc *tracker.Service) error {
	out, err := svc.DeleteFood(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return result(c, fiber.StatusOK, nil, out)
}

func nutrition(c *fiber.Ctx, svc *tracker.Service) error {
	n, err := svc.NutritionSummary(c.Query("date"))
	if err != nil {
		return err
	}
	return c.JSON(n)
}

func listMedia(c *fiber.Ctx, svc *tracker.Service) error {
	items, err := svc.Media()
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// uploadMedia takes a multipart form with one or more "files" parts and a
// "type" field.
func uploadMedia(c *fiber.Ctx, svc *tracker.Service) error {
	form, err := c.MultipartForm()
	if err != nil {
		return badBody(err)
	}
	headers := form.File["files"]
	files := make([]media.File, 0, len(headers))
	for _, fh := range headers {
		f, err := readPart(fh)
		if err != nil {
			return badBody(err)
		}
		files = append(files, f)
	}

	typ := constants.MediaProgress
	if v := form.Value["type"]; len(v) > 0 && v[0] != "" {
		typ = constants.MediaType(v[0])
	}
	report, out, err := svc.UploadMedia(c.UserContext(), files, typ)
	if err != nil {
		return err
	}
	return result(c, fiber.StatusCreated, report, out)
}

func readPart(fh *multipart.FileHeader) (media.File, error) {
	f, err := fh.Open()
	if err != nil {
		return media.File{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return media.File{}, err
	}
	return media.File{Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Data: data}, nil
}

func deleteMedia(c *fiber.Ctx, svc *tracker.Service) error {
	out, err := svc.DeleteMedia(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return result(c, fiber.StatusOK, nil, out)
}

func storageUsage(c *fiber.Ctx, svc *tracker.Service) error {
	u, err := svc.StorageUsage(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(u)
}

func cleanMedia(c *fiber.Ctx, svc *tracker.Service) error {
	var req struct {
		Keep int `json:"keep"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badBody(err)
		}
	}
	removed, out, err := svc.CleanOldMedia(c.UserContext(), req.Keep)
	if err != nil {
		return err
	}
	return result(c, fiber.StatusOK, fiber.Map{"removed": removed}, out)
}
