// Package config читает окружение процессов и файл дескрипторов сервисов.
//
// Окружение:
//
//	APP_ENV (или NODE_ENV)  — имя окружения, по умолчанию production
//	SERVICES                — имена экземпляров через пробел (фильтр)
//	SERVICE_DATA            — дескриптор сервиса (только воркер)
//	HIVE_CONFIG_DIR         — каталог файлов конфигурации, по умолчанию config
//	RABBITMQ_URL            — URL брокера; иначе RABBITMQ_HOSTNAME, _PORT,
//	                          _USERNAME, _PASSWORD, _VHOST
//
// Файл дескрипторов — <HIVE_CONFIG_DIR>/<APP_ENV>.json (массив) или
// .toml (таблицы [[services]]).
package config
