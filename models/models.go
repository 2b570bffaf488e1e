package models

// This file serves as the central export point for all database models
// Import this package to access all model types

// All models are automatically exported from their respective files:
// - User, Role, ActivityLog from user.go
// - CandidateProfile, CvTemplate from candidate.go
// - Company, CompanyStatus from company.go
// - Job, JobStatus, Category from job.go
// - Application, ApplicationStatus from application.go

// Database schema overview:
// 1. users - One account per person, role is candidate, company or admin
// 2. candidate_profiles - CV data for candidate users (exactly one per candidate)
// 3. companies - Employer records, gated by admin approval before jobs go live
// 4. categories - Classification tags attached to jobs for filtering
// 5. jobs - Postings owned by a company, lifecycle Open/Closed/Paused
// 6. applications - One candidate's request per job, lifecycle Pending/Accepted/Rejected
// 7. cv_templates - Named CV rendering templates selectable by candidates
// 8. activity_logs - Append-only audit trail of user actions
