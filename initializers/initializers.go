package initializers

import (
	"context"

	"leave-tools-backend/config"
	"leave-tools-backend/fiberlog"
	approvalhandler "leave-tools-backend/lib/approval"
	filestorage "leave-tools-backend/lib/file-storage"
	leavebalancehandler "leave-tools-backend/lib/leave-balance"
	rolloverworker "leave-tools-backend/lib/leave-balance/rollover-worker"
	leaverequesthandler "leave-tools-backend/lib/leave-request"
	leavetypeprovider "leave-tools-backend/lib/leave-type"
	notificationhandler "leave-tools-backend/lib/notification"
	spaceauthhandler "leave-tools-backend/lib/space/auth"
	spacehandler "leave-tools-backend/lib/space/handler"
	spaceusershandler "leave-tools-backend/lib/space/users/handler"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3()
	InitSmtp()
	filestorage.NewHandler()
	spacehandler.NewHandler()
	spaceauthhandler.NewHandler()
	spaceusershandler.NewHandler()
	notificationhandler.NewHandler()
	leavetypeprovider.NewHandler()
	leavebalancehandler.NewHandler()
	leaverequesthandler.NewHandler()
	approvalhandler.NewHandler()
	go initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	// Задача переноса балансов в новый год
	rolloverworker.StartWorker(ctx)
}
