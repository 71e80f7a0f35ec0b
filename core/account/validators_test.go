package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo/portal/core"
)

func TestPasswordPolicyViolation(t *testing.T) {
	tests := []struct {
		name string
		pwd  string
		want string
	}{
		{name: "too short", pwd: "Sh0rt!", want: pwdMinLenTag},
		{name: "whitespace", pwd: "Has Space1!", want: pwdNoSpaceTag},
		{name: "all numeric", pwd: "1234567890", want: pwdNotAllNumTag},
		{name: "no upper", pwd: "password1!", want: pwdComplexityTag},
		{name: "no special", pwd: "Password1", want: pwdComplexityTag},
		{name: "similar to name", pwd: "JohnDoe1!", want: pwdAttrSimTag},
		{name: "similar to email", pwd: "J.doe@Sch1", want: pwdAttrSimTag},
		{name: "valid", pwd: "Str0ng!Pass"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, passwordPolicyViolation(tt.pwd, "John Doe", "j.doe@sch.test"))
		})
	}
}

func TestNewAccount_Validate(t *testing.T) {
	tests := []struct {
		name       string
		acc        NewAccount
		wantFields map[string]string
	}{
		{
			name: "required",
			acc:  NewAccount{Name: "   "},
			wantFields: map[string]string{
				"name":            "this field is required",
				"email":           "this field is required",
				"password":        "this field is required",
				"passwordConfirm": "this field is required",
			},
		},
		{
			name:       "bad email and mismatch",
			acc:        NewAccount{Name: "Jane", Email: "jane", Password: "Str0ng!Pass", PasswordConfirm: "Str0ng!Pas"},
			wantFields: map[string]string{"email": "email must be a valid email address", "passwordConfirm": "passwordConfirm must be equal to Password"},
		},
		{
			name:       "weak password",
			acc:        NewAccount{Name: "Jane", Email: "jane@sch.test", Password: "password", PasswordConfirm: "password"},
			wantFields: map[string]string{"password": pwdComplexityText},
		},
		{
			name: "valid",
			acc:  NewAccount{Name: " Jane ", Email: " Jane@Sch.Test", Password: "Str0ng!Pass", PasswordConfirm: "Str0ng!Pass"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.acc.Validate()
			if tt.wantFields == nil {
				require.NoError(t, err)
				assert.Equal(t, "Jane", tt.acc.Name)
				assert.Equal(t, "jane@sch.test", tt.acc.Email)
				return
			}
			var vErr *core.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantFields, vErr.FieldMap())
		})
	}
}

func TestUpdateProfile_Validate(t *testing.T) {
	orig := Profile{Name: "John Doe", Email: "j.doe@sch.test"}

	up := UpdateProfile{Name: "  Johnny "}
	require.NoError(t, up.Validate(orig))
	assert.Equal(t, "Johnny", up.Name)

	up = UpdateProfile{Password: "Str0ng!Pass"}
	err := up.Validate(orig)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"passwordConfirm": "this field is required"}, err.(*core.ValidationError).FieldMap())

	up = UpdateProfile{Password: "JohnDoe1!", PasswordConfirm: "JohnDoe1!"}
	err = up.Validate(orig)
	require.Error(t, err)
	assert.True(t, core.IsValidationError(err))
	assert.Equal(t, pwdAttrSimText, err.Error())

	up = UpdateProfile{Password: "Str0ng!Pass", PasswordConfirm: "Str0ng!Pass"}
	assert.NoError(t, up.Validate(orig))
}

func TestCredentials_Validate(t *testing.T) {
	creds := Credentials{Email: " Admin@Sch.Test ", Password: "x"}
	require.NoError(t, creds.Validate())
	assert.Equal(t, "admin@sch.test", creds.Email)

	creds = Credentials{Email: "admin"}
	err := creds.Validate()
	require.Error(t, err)
	assert.Equal(t, map[string]string{
		"email":    "email must be a valid email address",
		"password": "this field is required",
	}, err.(*core.ValidationError).FieldMap())
}
