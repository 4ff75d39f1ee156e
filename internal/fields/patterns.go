package fields

// Header vocabularies seen across shop-management exports. Order within a list
// does not matter; the row's column order decides which match wins.

var (
	FirstName    = compile(`^first$`, `first[ _-]?name`, `^fname$`, `given[ _-]?name`)
	LastName     = compile(`^last$`, `last[ _-]?name`, `^lname$`, `surname`, `family[ _-]?name`)
	FullName     = compile(`^name$`, `full[ _-]?name`, `customer[ _-]?name`, `client[ _-]?name`, `^customer$`, `^client$`, `display[ _-]?name`)
	BusinessName = compile(`business`, `company`, `^organi[sz]ation$`, `fleet[ _-]?name`, `account[ _-]?name`)
	Email        = compile(`^email$`, `e-mail`, `customer[ _-]?email`, `mail`)
	Phone        = compile(`phone`, `mobile`, `^cell`, `^tel`, `contact[ _-]?number`)
	Fleet        = compile(`^fleet$`, `is[ _-]?fleet`, `fleet[ _-]?(account|customer|flag)`)

	OwnerEmail = compile(`owner[ _-]?email`, `customer[ _-]?email`, `^email$`, `e-mail`)
	OwnerPhone = compile(`owner[ _-]?phone`, `customer[ _-]?phone`, `^phone$`, `mobile`)

	VIN         = compile(`^vin$`, `vin[ _-]?(number|#|no)`, `vehicle[ _-]?id(entification)?[ _-]?(number|#|no)?$`, `serial`)
	Plate       = compile(`plate`, `licen[cs]e`, `^reg(istration)?$`, `^tag$`)
	Year        = compile(`^year$`, `model[ _-]?year`, `^yr$`, `vehicle[ _-]?year`)
	Make        = compile(`^make$`, `manufacturer`, `vehicle[ _-]?make`, `^brand$`)
	Model       = compile(`^model$`, `vehicle[ _-]?model`)
	UnitNumber  = compile(`unit`, `fleet[ _-]?(number|#|no)`, `asset[ _-]?(number|#|no|id)`)
	Mileage     = compile(`mileage`, `odometer`, `^miles$`, `^km$`, `kilomet`)
	EngineHours = compile(`engine[ _-]?hours?`, `^hours$`, `hour[ _-]?meter`)

	PartName   = compile(`^name$`, `part[ _-]?name`, `^description$`, `^desc$`, `item[ _-]?name`, `^item$`, `^title$`)
	PartNumber = compile(`part[ _-]?(number|#|no|num)`, `^p/?n$`, `mfr[ _-]?(part|number)`, `^part$`)
	SKU        = compile(`^sku$`, `sku`, `upc`, `barcode`)
	Supplier   = compile(`supplier`, `vendor`, `distributor`, `manufacturer`)
	Category   = compile(`category`, `^group$`, `^type$`, `class`)
	Cost       = compile(`^cost$`, `unit[ _-]?cost`, `cost[ _-]?price`, `wholesale`, `our[ _-]?cost`)
	Price      = compile(`^price$`, `sell`, `retail`, `list[ _-]?price`, `unit[ _-]?price`, `msrp`)

	StaffName  = compile(`^name$`, `full[ _-]?name`, `employee`, `staff[ _-]?name`, `tech(nician)?[ _-]?name`)
	StaffEmail = compile(`^email$`, `e-mail`, `work[ _-]?email`, `mail`)
	Role       = compile(`role`, `position`, `title`, `job[ _-]?title`)

	JobNumber   = compile(`^ro$`, `^ro[ _-]?(number|#|no)$`, `^repair[ _-]?order[ _-]?(number|#|no)?$`, `^work[ _-]?order[ _-]?(number|#|no|id)?$`, `^job[ _-]?(number|#|no|id)$`, `^invoice[ _-]?(number|#|no)$`, `^wo$`)
	JobDate     = compile(`^date$`, `completed`, `closed`, `invoice[ _-]?date`, `service[ _-]?date`, `job[ _-]?date`, `date[ _-]?(in|out)`)
	Complaint   = compile(`complaint`, `concern`, `customer[ _-]?states`, `symptom`)
	Cause       = compile(`^cause$`, `diagnos`, `finding`)
	Correction  = compile(`correction`, `repair[ _-]?performed`, `work[ _-]?performed`, `resolution`)
	Description = compile(`description`, `^notes?$`, `^summary$`, `^work$`, `work[ _-]?description`)
	LaborTotal  = compile(`^labou?r$`, `labou?r[ _-]?(total|amount|cost|charge|\$|sale)`)
	PartsTotal  = compile(`^parts?$`, `parts?[ _-]?(total|amount|cost|charge|\$|sale)`)
	GrandTotal  = compile(`^total$`, `grand[ _-]?total`, `invoice[ _-]?total`, `total[ _-]?(amount|due|sale)`, `amount[ _-]?due`, `^amount$`)
)
