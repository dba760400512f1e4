package accounts

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ProjectsController exposes owner-scoped project CRUD. Every handler
// resolves the caller first; a project belonging to someone else looks
// exactly like a project that does not exist.
type ProjectsController struct {
	projects Projects
	logger   Logger
}

// NewProjectsController wires the projects repository behind fiber routes.
func NewProjectsController(projects Projects) *ProjectsController {
	return &ProjectsController{
		projects: projects,
		logger:   defLogger{},
	}
}

// WithLogger overrides the logger used by the controller.
func (p *ProjectsController) WithLogger(logger Logger) *ProjectsController {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// Routes mounts the project endpoints on the given router.
func (p *ProjectsController) Routes(r fiber.Router) {
	r.Get("/", p.List)
	r.Post("/", p.Create)
	r.Get("/:id/", p.Get)
	r.Patch("/:id/", p.Update)
	r.Delete("/:id/", p.Delete)
}

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r CreateProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
	)
}

func (p *ProjectsController) owner(c *fiber.Ctx) (uuid.UUID, error) {
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

func (p *ProjectsController) projectID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

func (p *ProjectsController) List(c *fiber.Ctx) error {
	ownerID, err := p.owner(c)
	if err != nil {
		return respondError(c, err)
	}

	records, err := p.projects.ByOwner(c.UserContext(), ownerID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(records)
}

func (p *ProjectsController) Create(c *fiber.Ctx) error {
	ownerID, err := p.owner(c)
	if err != nil {
		return respondError(c, err)
	}

	req := CreateProjectRequest{}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		return validationError(c, err)
	}

	record, err := p.projects.Create(c.UserContext(), &Project{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		p.logger.Error("project create error: %v", err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

func (p *ProjectsController) Get(c *fiber.Ctx) error {
	ownerID, err := p.owner(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := p.projectID(c)
	if err != nil {
		return badRequest(c, "invalid project id")
	}

	record, err := p.projects.ByIDForOwner(c.UserContext(), id, ownerID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(record)
}

func (p *ProjectsController) Update(c *fiber.Ctx) error {
	ownerID, err := p.owner(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := p.projectID(c)
	if err != nil {
		return badRequest(c, "invalid project id")
	}

	patch := ProjectPatch{}
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "invalid request body")
	}

	if patch.isZero() {
		return badRequest(c, "nothing to update")
	}

	record, err := p.projects.UpdateForOwner(c.UserContext(), id, ownerID, patch)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(record)
}

func (p *ProjectsController) Delete(c *fiber.Ctx) error {
	ownerID, err := p.owner(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := p.projectID(c)
	if err != nil {
		return badRequest(c, "invalid project id")
	}

	if err := p.projects.DeleteForOwner(c.UserContext(), id, ownerID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
