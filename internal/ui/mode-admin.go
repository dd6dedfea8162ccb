package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/juju/errors"
	"github.com/vendlasvegas/SelfCheck/internal/admin"
	"github.com/vendlasvegas/SelfCheck/internal/inactivity"
	"github.com/vendlasvegas/SelfCheck/internal/types"
)

type adminMode struct {
	ui            *UI
	sup           *inactivity.Supervisor
	authenticated bool
	busy          string // running job name
	msg           string
	errmsg        string
}

func newAdmin(ui *UI) *adminMode {
	return &adminMode{ui: ui, sup: inactivity.New("admin", ui.g.Now)}
}

func (self *adminMode) Kind() ModeKind                     { return ModeAdmin }
func (self *adminMode) Supervisor() *inactivity.Supervisor { return self.sup }

// Start shows login screen. Abandoned login also times out.
func (self *adminMode) Start(ctx context.Context) error {
	self.authenticated = false
	self.busy = ""
	self.msg, self.errmsg = MsgAdminLogin, ""
	self.arm()
	self.render()
	return nil
}

func (self *adminMode) Stop() {
	self.sup.Cancel()
	self.authenticated = false
	self.busy = ""
}

func (self *adminMode) arm() {
	self.sup.Arm(self.ui.config.AdminTimeout(), func() { self.ui.requestSwitch(ModeIdle) })
}

func (self *adminMode) UsesButton(b types.Button) bool {
	return b == types.ButtonB && self.authenticated
}

func (self *adminMode) Handle(ctx context.Context, e types.Event) ModeKind {
	switch e.Kind {
	case types.EventAdminLogin:
		return self.login(e.User, e.Password)

	case types.EventAdminCancel:
		return ModeIdle

	case types.EventButton:
		if e.Button == types.ButtonB && self.authenticated {
			self.refresh()
		}

	case types.EventTouch:
		if self.authenticated {
			return self.touch(e.X, e.Y)
		}

	case types.EventJobDone:
		return self.jobDone(e.Job)
	}
	return ModeNone
}

func (self *adminMode) login(user, password string) ModeKind {
	if self.authenticated || self.busy != "" {
		return ModeNone
	}
	user = strings.TrimSpace(user)
	if user == "" || password == "" {
		self.errmsg = MsgLoginEmpty
		self.render()
		return ModeNone
	}
	src := self.ui.g.Sheets
	self.start(jobLogin, MsgChecking, func(ctx context.Context) (interface{}, error) {
		return user, admin.VerifyLogin(ctx, src, user, password)
	})
	return ModeNone
}

func (self *adminMode) touch(x, y int) ModeKind {
	region := HitTest(ScreenAdminMenu, x, y)
	if region == RegionExit {
		return ModeIdle
	}
	if region == RegionNone {
		return ModeNone
	}
	if self.busy != "" {
		self.errmsg = MsgBusy
		self.render()
		return ModeNone
	}

	g := self.ui.g
	src, files := g.Sheets, g.Files
	switch region {
	case RegionCredentials:
		self.start(jobCredentials, MsgUpdating, func(ctx context.Context) (interface{}, error) {
			return admin.ExportCells(ctx, src, files, admin.CredentialExports)
		})

	case RegionLocation:
		self.start(jobLocation, MsgUpdating, func(ctx context.Context) (interface{}, error) {
			cells, err1 := admin.ExportCells(ctx, src, files, admin.LocationCellExports)
			tabs, err2 := admin.ExportTabs(ctx, src, files, admin.LocationTabExports)
			names := append(cells, tabs...)
			if err1 != nil {
				return names, err1
			}
			return names, err2
		})

	case RegionWifi:
		self.msg, self.errmsg = MsgWifi, ""
		self.render()

	case RegionPortal:
		self.start(jobPortal, MsgUpdating, func(ctx context.Context) (interface{}, error) {
			return admin.PortalURL(ctx, src)
		})
	}
	return ModeNone
}

func (self *adminMode) refresh() {
	if self.busy != "" {
		self.errmsg = MsgBusy
		self.render()
		return
	}
	self.busy = jobRefresh
	self.msg, self.errmsg = MsgUpdating, ""
	self.ui.spawnRefresh(self.ui.session, false)
	self.render()
}

func (self *adminMode) start(name, msg string, f jobFunc) {
	self.busy = name
	self.msg, self.errmsg = msg, ""
	self.ui.spawn(name, self.ui.session, f)
	self.render()
}

func (self *adminMode) jobDone(job *types.JobResult) ModeKind {
	if job == nil || job.Name != self.busy {
		return ModeNone
	}
	self.busy = ""
	self.msg, self.errmsg = MsgAdminMenu, ""

	switch job.Name {
	case jobLogin:
		if job.Err != nil {
			self.ui.g.Log.Infof("admin login failed err=%v", job.Err)
			return ModeIdle
		}
		self.authenticated = true
		self.ui.g.Log.Infof("admin login user=%v", job.Value)
		self.arm()

	case jobCredentials, jobLocation:
		if names, ok := job.Value.([]string); ok && len(names) != 0 {
			self.msg = fmt.Sprintf(MsgUpdatedFormat, strings.Join(names, ", "))
		}
		if job.Err != nil {
			self.ui.g.Error(errors.Annotatef(job.Err, "admin %s", job.Name))
			self.errmsg = MsgError
		}

	case jobPortal:
		url, _ := job.Value.(string)
		switch {
		case job.Err != nil:
			self.ui.g.Error(errors.Annotate(job.Err, "admin portal"))
			self.errmsg = MsgError
		case url == "":
			self.msg = MsgPortalMissing
		default:
			self.msg = url
		}

	case jobRefresh:
		// controller already installed the index
		if job.Err != nil {
			self.errmsg = MsgNoInventory
		} else {
			self.msg = fmt.Sprintf(MsgRefreshed, self.ui.g.Catalog.Len())
		}
	}
	self.render()
	return ModeNone
}

func (self *adminMode) render() {
	v := types.View{
		Screen:  ScreenLogin,
		Title:   MsgAdminLogin,
		Message: self.msg,
		Error:   self.errmsg,
		Busy:    self.busy != "",
	}
	if self.authenticated {
		v.Screen = ScreenAdminMenu
		v.Title = MsgAdminMenu
		v.Lines = []string{"Update credentials", "Update location files", "Wi-Fi", "Inventory portal", "Exit"}
	}
	self.ui.render(v)
}
