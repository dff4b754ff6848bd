package constants

// 字段长度限制（与表结构保持一致）
const (
	BarcodeMaxLength   = 50
	ShortCodeMaxLength = 10
)

// 面向用户的提示文案（葡萄牙语，需与前端保持逐字一致）
const (
	MsgVolumeDuplicate = "Volume já existe"
	MsgVolumeNotFound  = "Volume não encontrado"
	MsgInvalidPayload  = "Dados inválidos"
	MsgInternalError   = "Erro interno do servidor"
	MsgRateLimited     = "Muitas leituras em sequência, tente novamente em %d segundos"
	MsgExportFailed    = "Falha ao exportar volumes"
)

// 异步队列常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskSessionClosed = "session:closed"
)

// 导出相关常量
const (
	ExportSheetName   = "Volumes"
	ExportFilePrefix  = "volumes"
	ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)
