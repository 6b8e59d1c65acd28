package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/coder-alair/shoorah-insights/internal/cohort"
	"github.com/coder-alair/shoorah-insights/internal/output"
)

var (
	subjectID         string
	subjectCompany    string
	subjectDepartment string
	subjectCountry    string
	subjectEthnicity  string
	subjectGender     string
	subjectDOB        string
	subjectStatus     string
	subjectMemberOf   []string
)

var subjectCmd = &cobra.Command{
	Use:   "subject",
	Short: "Manage subjects and company memberships",
}

var subjectAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a subject",
	Long: `Register a subject with their demographic attributes. An id is
generated when none is supplied. Use --member-of to also index the subject
on one or more company membership lists.

Example:
  shoorah-insights subject add --company acme --department sales --gender female --dob 1990-06-15`,
	RunE: runSubjectAdd,
}

var subjectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered subjects",
	RunE:  runSubjectList,
}

func init() {
	subjectAddCmd.Flags().StringVar(&subjectID, "id", "", "Subject id (generated when empty)")
	subjectAddCmd.Flags().StringVar(&subjectCompany, "company", "", "Company id")
	subjectAddCmd.Flags().StringVar(&subjectDepartment, "department", "", "Department")
	subjectAddCmd.Flags().StringVar(&subjectCountry, "country", "", "Country")
	subjectAddCmd.Flags().StringVar(&subjectEthnicity, "ethnicity", "", "Ethnicity")
	subjectAddCmd.Flags().StringVar(&subjectGender, "gender", "", "Gender")
	subjectAddCmd.Flags().StringVar(&subjectDOB, "dob", "", "Date of birth (YYYY-MM-DD)")
	subjectAddCmd.Flags().StringVar(&subjectStatus, "status", cohort.StatusActive, "Account status")
	subjectAddCmd.Flags().StringSliceVar(&subjectMemberOf, "member-of", nil, "Company id to index on the membership list (repeatable)")

	subjectCmd.AddCommand(subjectAddCmd, subjectListCmd)
	rootCmd.AddCommand(subjectCmd)
}

func runSubjectAdd(cmd *cobra.Command, args []string) error {
	_, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	s := cohort.Subject{
		ID:            subjectID,
		CompanyID:     subjectCompany,
		Department:    subjectDepartment,
		Country:       subjectCountry,
		Ethnicity:     subjectEthnicity,
		Gender:        subjectGender,
		AccountStatus: subjectStatus,
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if subjectDOB != "" {
		dob, err := time.Parse(dateLayout, subjectDOB)
		if err != nil {
			return fmt.Errorf("parsing --dob: %w", err)
		}
		s.DateOfBirth = dob
	}

	if err := db.InsertSubject(s); err != nil {
		return fmt.Errorf("inserting subject: %w", err)
	}
	for _, company := range subjectMemberOf {
		if err := db.AddMember(company, s.ID); err != nil {
			return fmt.Errorf("adding membership %s: %w", company, err)
		}
	}

	fmt.Println("Registered subject", s.ID)
	return nil
}

func runSubjectList(cmd *cobra.Command, args []string) error {
	_, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	subjects, err := db.ListSubjects(context.Background())
	if err != nil {
		return fmt.Errorf("listing subjects: %w", err)
	}

	if flagJSON {
		return printJSON(subjects)
	}

	if len(subjects) == 0 {
		fmt.Println("No subjects registered yet. Use 'shoorah-insights subject add' to start.")
		return nil
	}

	tbl := output.NewTable("ID", "Company", "Department", "Country", "Gender", "Status")
	for _, s := range subjects {
		tbl.AddRow(s.ID, s.CompanyID, s.Department, s.Country, s.Gender, s.AccountStatus)
	}
	tbl.Print()
	return nil
}
