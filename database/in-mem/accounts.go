package in_memdb

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/masomo/portal/core"
	"github.com/trezcool/masomo/portal/core/account"
)

// Account is a stored user of any role. Teacher and student details are
// unused for admins.
type Account struct {
	ID           string
	Role         core.Role
	Name         string
	Email        string
	PasswordHash []byte
	Code         string // teacher or student number
	Program      string
	ClassLevel   string
	AcademicYear string
	Subject      string
	IsWithdrawn  bool
	IsSuspended  bool
	IsGraduated  bool
	CreatedAt    time.Time
}

func (a *Account) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.MinCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a *Account) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}

func (a Account) Profile() account.Profile {
	return account.Profile{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role, CreatedAt: a.CreatedAt}
}

func (a Account) Teacher() account.Teacher {
	return account.Teacher{
		ID: a.ID, Name: a.Name, Email: a.Email, TeacherID: a.Code, Program: a.Program,
		ClassLevel: a.ClassLevel, AcademicYear: a.AcademicYear, Subject: a.Subject,
		IsWithdrawn: a.IsWithdrawn, IsSuspended: a.IsSuspended, CreatedAt: a.CreatedAt,
	}
}

func (a Account) Student() account.Student {
	return account.Student{
		ID: a.ID, Name: a.Name, Email: a.Email, StudentID: a.Code, CurrentClassLevel: a.ClassLevel,
		Program: a.Program, AcademicYear: a.AcademicYear, IsWithdrawn: a.IsWithdrawn,
		IsSuspended: a.IsSuspended, IsGraduated: a.IsGraduated, CreatedAt: a.CreatedAt,
	}
}

func (db *DB) CreateAccount(acc Account) (Account, error) {
	t := db.accounts
	t.mutex.Lock()
	defer t.mutex.Unlock()

	for _, a := range t.t {
		if a.Role == acc.Role && a.Email == acc.Email {
			return Account{}, ErrEmailExists
		}
	}
	acc.ID = newID()
	acc.CreatedAt = time.Now().UTC()
	if acc.Code == "" && acc.Role != core.RoleAdmin {
		acc.Code = strings.ToUpper(acc.Role.String()[:3]) + acc.ID[:8]
	}
	t.t[acc.ID] = &acc
	return acc, nil
}

func (db *DB) AccountByEmail(role core.Role, email string) (Account, error) {
	t := db.accounts
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	for _, a := range t.t {
		if a.Role == role && a.Email == email {
			return *a, nil
		}
	}
	return Account{}, ErrNotFound
}

func (db *DB) AccountByID(role core.Role, id string) (Account, error) {
	t := db.accounts
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if a, ok := t.t[id]; ok && a.Role == role {
		return *a, nil
	}
	return Account{}, ErrNotFound
}

// ListAccounts returns the role's accounts whose name contains name
// (case-insensitive), oldest first.
func (db *DB) ListAccounts(role core.Role, name string) []Account {
	t := db.accounts
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	name = strings.ToLower(name)
	res := make([]Account, 0, len(t.t))
	for _, a := range t.t {
		if a.Role == role && strings.Contains(strings.ToLower(a.Name), name) {
			res = append(res, *a)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID < res[j].ID
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res
}

func (db *DB) UpdateAccount(acc Account) error {
	t := db.accounts
	t.mutex.Lock()
	defer t.mutex.Unlock()

	orig, ok := t.t[acc.ID]
	if !ok {
		return ErrNotFound
	}
	if acc.Email != orig.Email {
		for _, a := range t.t {
			if a.ID != acc.ID && a.Role == acc.Role && a.Email == acc.Email {
				return ErrEmailExists
			}
		}
	}
	t.t[acc.ID] = &acc
	return nil
}
