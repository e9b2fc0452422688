// messages.go contains user-facing texts of the web interface.

package web

// Notices and inline form errors.
const (
	msgLoginRequired     = "Please log in to continue."
	msgLoginFailed       = "Login failed. Check your email and password."
	msgAdminOnly         = "This page is only available to the administrator."
	msgMustChangePass    = "Please choose a new password before continuing."
	msgPasswordChanged   = "Your password has been changed."
	msgProfileSaved      = "Your profile has been saved."
	msgNoQuestions       = "No questions are available for this test yet."
	msgNoRetestQuestions = "There is nothing to retest. Answer some questions first, or you have mastered them all."
	msgQuestionCreated   = "Question added."
	msgQuestionUpdated   = "Question updated."
	msgQuestionDeleted   = "Question deleted."
	msgUserCreated       = "User added. They must change the password on first login."
	msgUserDeleted       = "User deleted."
	msgPasswordReset     = "Password reset. The user must change it on next login."
	msgProtectedAccount  = "The administrator account cannot be deleted."
	msgDuplicateEmail    = "A user with this email already exists."
	msgInvalidForm       = "The form contains invalid values."
	msgNotFound          = "The page you requested does not exist."
	msgInternalError     = "Something went wrong. Please try again later."
)

// Page titles.
const (
	titleLogin          = "Log in"
	titleChangePassword = "Change password"
	titleProfile        = "Profile"
	titleHome           = "Home"
	titleMaterial       = "Material"
	titlePractice       = "Practice exam"
	titleRetest         = "Retest"
	titleSection        = "Chapter %s test"
	titleResult         = "Result"
	titleQuestions      = "Questions"
	titleNewQuestion    = "New question"
	titleEditQuestion   = "Edit question"
	titleUsers          = "Users"
	titleNewUser        = "New user"
	titleResetPassword  = "Reset password"
	titleNotFound       = "Not found"
	titleError          = "Error"
)
