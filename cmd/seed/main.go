package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/resource-planner-api/internal/models"
	"github.com/noah-isme/resource-planner-api/internal/repository"
	"github.com/noah-isme/resource-planner-api/pkg/config"
	"github.com/noah-isme/resource-planner-api/pkg/database"
	"github.com/noah-isme/resource-planner-api/pkg/logger"
)

var roleCatalog = []string{"Developer", "Tech Lead", "QA", "Designer", "Project Manager", "DevOps"}

func main() {
	personCount := flag.Int("persons", 20, "people to create")
	projectCount := flag.Int("projects", 5, "projects to create")
	weeks := flag.Int("weeks", 8, "weeks of assignments starting at the current week")
	password := flag.String("password", "planner123", "password of the seeded accounts")
	seed := flag.Int64("seed", 0, "random seed, 0 uses the clock")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(*seed)
	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		logr.Fatal("failed to hash password", zap.Error(err))
	}

	s := &seeder{
		faker:       faker,
		hash:        string(hash),
		people:      repository.NewPersonRepository(db),
		users:       repository.NewUserRepository(db),
		projects:    repository.NewProjectRepository(db),
		roles:       repository.NewRoleRepository(db),
		assignments: repository.NewAssignmentRepository(db),
		weeks:       repository.NewControlWeekRepository(db),
	}
	ctx := context.Background()
	if err := s.run(ctx, *personCount, *projectCount, *weeks); err != nil {
		logr.Fatal("seed failed", zap.Error(err))
	}
	logr.Info("seed done",
		zap.Int("persons", *personCount),
		zap.Int("projects", *projectCount),
		zap.Int("weeks", *weeks),
		zap.Int64("seed", *seed))
}

type seeder struct {
	faker       *gofakeit.Faker
	hash        string
	people      *repository.PersonRepository
	users       *repository.UserRepository
	projects    *repository.ProjectRepository
	roles       *repository.RoleRepository
	assignments *repository.AssignmentRepository
	weeks       *repository.ControlWeekRepository
}

func (s *seeder) run(ctx context.Context, personCount, projectCount, weekCount int) error {
	if err := s.account(ctx, "admin@planner.local", "Administrador", models.RoleAdmin, nil); err != nil {
		return err
	}
	if err := s.account(ctx, "rrhh@planner.local", "Recursos Humanos", models.RoleHR, nil); err != nil {
		return err
	}
	if err := s.account(ctx, "manager@planner.local", "Gerencia", models.RoleManager, nil); err != nil {
		return err
	}

	roles := make([]*models.Role, 0, len(roleCatalog))
	for _, name := range roleCatalog {
		role := &models.Role{Name: name, Description: s.faker.Sentence(8)}
		if err := s.roles.Create(ctx, role); err != nil {
			return fmt.Errorf("create role %s: %w", name, err)
		}
		roles = append(roles, role)
	}

	today := models.NewDate(time.Now())
	projects := make([]*models.Project, 0, projectCount)
	for i := 0; i < projectCount; i++ {
		project := &models.Project{
			Code:      fmt.Sprintf("PRJ-%03d", i+1),
			Name:      s.faker.AppName(),
			Client:    s.faker.Company(),
			StartDate: today.WeekStart(),
			Active:    true,
		}
		if err := s.projects.Create(ctx, project); err != nil {
			return fmt.Errorf("create project %s: %w", project.Code, err)
		}
		projects = append(projects, project)
	}

	for i := 0; i < personCount; i++ {
		first, last := s.faker.FirstName(), s.faker.LastName()
		person := &models.Person{
			Name:     first + " " + last,
			Email:    fmt.Sprintf("%s.%s%d@planner.local", strings.ToLower(first), strings.ToLower(last), i),
			Position: s.faker.JobTitle(),
			Active:   true,
		}
		if err := s.people.Create(ctx, person); err != nil {
			return fmt.Errorf("create person: %w", err)
		}
		if err := s.account(ctx, person.Email, person.Name, models.RoleEmployee, &person.ID); err != nil {
			return err
		}
		if len(projects) == 0 {
			continue
		}
		project := projects[s.faker.Number(0, len(projects)-1)]
		role := roles[s.faker.Number(0, len(roles)-1)]
		for w := 0; w < weekCount; w++ {
			week := models.NewDate(time.Now().AddDate(0, 0, 7*w)).WeekStart()
			assignment := &models.Assignment{
				PersonID:  person.ID,
				ProjectID: project.ID,
				RoleID:    role.ID,
				Week:      week,
				Hours:     float64(s.faker.Number(4, 40)),
			}
			if err := s.assignments.Create(ctx, assignment); err != nil {
				return fmt.Errorf("create assignment: %w", err)
			}
		}
		if _, err := s.weeks.Open(ctx, person.ID, today.WeekStart()); err != nil {
			return fmt.Errorf("open control week: %w", err)
		}
	}
	return nil
}

func (s *seeder) account(ctx context.Context, email, name string, role models.UserRole, personID *string) error {
	user := &models.User{
		Email:        email,
		PasswordHash: s.hash,
		FullName:     name,
		PersonID:     personID,
		Role:         role,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("create user %s: %w", email, err)
	}
	return nil
}
