package seed

import (
	"errors"
	"fmt"

	"go-itstock/internal/config"
	"go-itstock/internal/model"
	"go-itstock/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Defaults creates the default privileges and roles, grants them, and
// creates the admin account when it does not exist yet. It is safe to run
// on every start.
func Defaults(db *gorm.DB, cfg config.SeedConfig, log *zap.Logger) error {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)

	if err := privilegeRepo.SeedDefaults(); err != nil {
		return fmt.Errorf("seed privileges: %w", err)
	}
	if err := roleRepo.SeedDefaults(); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	allPrivileges, err := privilegeRepo.FindAll()
	if err != nil {
		return err
	}

	// ADMIN gets every privilege, USER everything but the admin-only ones.
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err != nil {
		return err
	}
	if len(adminRole.Privileges) != len(allPrivileges) {
		if err := roleRepo.AssignPrivileges(adminRole, allPrivileges); err != nil {
			return err
		}
		log.Info("ADMIN role assigned all privileges", zap.Int("count", len(allPrivileges)))
	}

	userRole, err := roleRepo.FindByCode(model.RoleUser)
	if err != nil {
		return err
	}
	userCodes := []string{}
	for _, p := range model.DefaultPrivileges {
		if !model.AdminOnlyPrivileges[p.Code] {
			userCodes = append(userCodes, p.Code)
		}
	}
	userPrivileges, err := privilegeRepo.FindByCodes(userCodes)
	if err != nil {
		return err
	}
	if len(userRole.Privileges) != len(userPrivileges) {
		if err := roleRepo.AssignPrivileges(userRole, userPrivileges); err != nil {
			return err
		}
		log.Info("USER role assigned privileges", zap.Int("count", len(userPrivileges)))
	}

	_, err = userRepo.FindByUsername(cfg.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	admin := &model.User{
		Username: cfg.AdminUsername,
		FullName: "Administrator",
		RoleID:   &adminRole.ID,
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := admin.SetPassword(cfg.AdminPassword); err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := userRepo.Create(admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.Info("admin user created", zap.String("username", admin.Username))
	return nil
}
