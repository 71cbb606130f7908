// internal/repository/mock_gen.go
package repository

//go:generate mockgen -source=./user.go -destination=../mocks/mock_user_repository.go -package=mocks UserRepositoryIface
//go:generate mockgen -source=./company.go -destination=../mocks/mock_company_repository.go -package=mocks CompanyRepositoryIface
//go:generate mockgen -source=./project.go -destination=../mocks/mock_project_repository.go -package=mocks ProjectRepositoryIface
//go:generate mockgen -source=./impact.go -destination=../mocks/mock_impact_repository.go -package=mocks ImpactRepositoryIface
//go:generate mockgen -source=./impact_audit_log.go -destination=../mocks/mock_impact_audit_log_repository.go -package=mocks ImpactAuditLogRepositoryIface
