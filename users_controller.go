package accounts

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UsersController exposes the authenticated self-service endpoints:
// profile read/update/delete, avatar upload, and owned project listing.
type UsersController struct {
	users      Users
	projects   Projects
	serviceURL string
	uploadsDir string
	logger     Logger
}

// NewUsersController wires the user repositories behind fiber routes.
func NewUsersController(users Users, projects Projects, serviceURL, uploadsDir string) *UsersController {
	return &UsersController{
		users:      users,
		projects:   projects,
		serviceURL: serviceURL,
		uploadsDir: uploadsDir,
		logger:     defLogger{},
	}
}

// WithLogger overrides the logger used by the controller.
func (u *UsersController) WithLogger(logger Logger) *UsersController {
	if logger != nil {
		u.logger = logger
	}
	return u
}

// Routes mounts the profile endpoints on the given router.
func (u *UsersController) Routes(r fiber.Router) {
	r.Get("/me/", u.Me)
	r.Patch("/me/", u.UpdateMe)
	r.Delete("/me/", u.DeleteMe)
	r.Get("/get_projects/", u.MyProjects)
}

// MediaRoutes mounts the avatar endpoint, kept under its own prefix.
func (u *UsersController) MediaRoutes(r fiber.Router) {
	r.Post("/me/avatar/", u.UploadAvatar)
}

func (u *UsersController) currentUser(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := UserIDFromContext(c.UserContext())
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}

	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return uid, nil
}

func (u *UsersController) Me(c *fiber.Ctx) error {
	uid, err := u.currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	user, err := u.users.ByID(c.UserContext(), uid)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(user)
}

func (u *UsersController) UpdateMe(c *fiber.Ctx) error {
	uid, err := u.currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	patch := UserPatch{}
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "invalid request body")
	}

	if patch.isZero() {
		return badRequest(c, "nothing to update")
	}

	if patch.Phone != "" {
		phone, err := normalizePhone(patch.Phone)
		if err != nil {
			return respondError(c, err)
		}
		patch.Phone = phone
	}

	user, err := u.users.UpdateProfile(c.UserContext(), uid, patch)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(user)
}

func (u *UsersController) DeleteMe(c *fiber.Ctx) error {
	uid, err := u.currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := u.users.DeleteByID(c.UserContext(), uid); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (u *UsersController) MyProjects(c *fiber.Ctx) error {
	uid, err := u.currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	projects, err := u.projects.ByOwner(c.UserContext(), uid)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(projects)
}

func (u *UsersController) UploadAvatar(c *fiber.Ctx) error {
	uid, err := u.currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "missing file upload")
	}

	user, err := u.users.ByID(c.UserContext(), uid)
	if err != nil {
		return respondError(c, err)
	}

	// spaces break naive link handling downstream
	filename := uid.String() + "_" + strings.ReplaceAll(file.Filename, " ", "_")
	dest := filepath.Join(u.uploadsDir, filename)

	if err := c.SaveFile(file, dest); err != nil {
		u.logger.Error("avatar save error: %v", err)
		return respondError(c, err)
	}

	// drop the previous file, best effort
	if old := u.avatarPath(user.AvatarLink); old != "" && old != dest {
		if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
			u.logger.Warn("could not remove old avatar %s: %v", old, err)
		}
	}

	link := u.serviceURL + "/uploads/" + filename
	user, err = u.users.SetAvatarLink(c.UserContext(), uid, link)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"avatar_link": user.AvatarLink})
}

func (u *UsersController) avatarPath(link string) string {
	if link == "" {
		return ""
	}

	idx := strings.LastIndex(link, "/uploads/")
	if idx < 0 {
		return ""
	}

	return filepath.Join(u.uploadsDir, link[idx+len("/uploads/"):])
}
